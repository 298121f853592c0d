package transport

// RiskLevel classifies how likely an encoded deck is to survive real-world
// URL length limits.
type RiskLevel string

const (
	RiskOK      RiskLevel = "ok"
	RiskWarning RiskLevel = "warning"
	RiskError   RiskLevel = "error"
)

// AbsoluteCeiling is the hard upper bound for a share URL payload in bytes.
// Above this, sharing by URL is refused outright.
const AbsoluteCeiling = 30000

// DefaultWarningFloor is the byte size at which a share URL starts to risk
// truncation on the most restrictive supported browser target.
const DefaultWarningFloor = 25000

// LimitTable maps browser targets to the URL byte limit observed for each.
type LimitTable map[string]int

// DefaultLimitTable lists the supported browser targets. The classifier only
// cares about the smallest entry, but the table is kept per-target so a new
// measurement retargets the classifier without code changes.
func DefaultLimitTable() LimitTable {
	return LimitTable{
		"chrome":  32000,
		"firefox": 64000,
		"safari":  25000,
		"edge":    32000,
	}
}

// Min returns the smallest limit in the table, or fallback when empty.
func (t LimitTable) Min(fallback int) int {
	limit := fallback
	first := true
	for _, value := range t {
		if first || value < limit {
			limit = value
			first = false
		}
	}
	return limit
}

// Classifier decides the transport risk of an encoded size. The warning
// boundary is the smaller of the absolute floor and the most restrictive
// per-target limit.
type Classifier struct {
	WarningFloor int
	ErrorCeiling int
	Limits       LimitTable
}

// NewClassifier builds a classifier over the given limit table. A nil table
// uses the defaults.
func NewClassifier(limits LimitTable) Classifier {
	if limits == nil {
		limits = DefaultLimitTable()
	}
	return Classifier{
		WarningFloor: DefaultWarningFloor,
		ErrorCeiling: AbsoluteCeiling,
		Limits:       limits,
	}
}

// Classify maps an encoded byte length onto a risk level.
func (c Classifier) Classify(byteLength int) RiskLevel {
	warnAt := c.WarningFloor
	if tableMin := c.Limits.Min(warnAt); tableMin < warnAt {
		warnAt = tableMin
	}

	switch {
	case byteLength > c.ErrorCeiling:
		return RiskError
	case byteLength >= warnAt:
		return RiskWarning
	default:
		return RiskOK
	}
}

// Classify applies the default classifier.
func Classify(byteLength int) RiskLevel {
	return NewClassifier(nil).Classify(byteLength)
}
