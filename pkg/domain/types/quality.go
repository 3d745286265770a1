package types

import "github.com/m-mizutani/goerr/v2"

// Quality is the classification label of a check-in message
type Quality string

const (
	QualityGood Quality = "good"
	QualityBad  Quality = "bad"
)

// Validate checks if the Quality is a known label
func (q Quality) Validate() error {
	switch q {
	case QualityGood, QualityBad:
		return nil
	default:
		return goerr.New("invalid quality label", goerr.V("quality", q))
	}
}

// String returns the string representation of the Quality
func (q Quality) String() string {
	return string(q)
}
