package filter

import (
	"fmt"
	"math"
	"strings"
)

// Mode names one of the filter's configuration modes. ModeNone leaves the
// filter at its library defaults.
type Mode uint32

const (
	ModeNone Mode = iota
	ModeRate
	ModePrecision
	ModeAccuracy
	ModeExpert
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeRate:
		return "rate"
	case ModePrecision:
		return "precision"
	case ModeAccuracy:
		return "accuracy"
	case ModeExpert:
		return "expert"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

// ParseMode accepts a mode name or its numeric value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return ModeNone, nil
	case "rate", "1":
		return ModeRate, nil
	case "precision", "prec", "2":
		return ModePrecision, nil
	case "accuracy", "acc", "3":
		return ModeAccuracy, nil
	case "expert", "4":
		return ModeExpert, nil
	default:
		return ModeNone, fmt.Errorf("unknown filter mode %q", s)
	}
}

// Config is one filter configuration. Only the fields of the selected mode are
// meaningful; the rest keep their defaults.
type Config struct {
	Mode      Mode
	Rate      float64 // target bits per value
	Precision uint32  // uncompressed bits per value to honor
	Accuracy  float64 // absolute error tolerance
	MinBits   uint32
	MaxBits   uint32
	MaxPrec   uint32
	MinExp    int32
}

// Default mirrors the harness's stock parameters.
func Default() Config {
	return Config{
		Mode:      ModeAccuracy,
		Rate:      4,
		Precision: 11,
		Accuracy:  0,
		MinBits:   0,
		MaxBits:   4171,
		MaxPrec:   64,
		MinExp:    -1074,
	}
}

// Values encodes the configuration as the opaque parameter block attached to a
// dataset: word 0 is the mode, floating parameters are split into low and high
// 32-bit words. ModeNone encodes as an empty block.
func (c Config) Values() []uint32 {
	switch c.Mode {
	case ModeRate:
		lo, hi := splitDouble(c.Rate)
		return []uint32{uint32(c.Mode), lo, hi}
	case ModePrecision:
		return []uint32{uint32(c.Mode), c.Precision}
	case ModeAccuracy:
		lo, hi := splitDouble(c.Accuracy)
		return []uint32{uint32(c.Mode), lo, hi}
	case ModeExpert:
		return []uint32{uint32(c.Mode), c.MinBits, c.MaxBits, c.MaxPrec, uint32(c.MinExp)}
	default:
		return nil
	}
}

// ParseValues decodes a parameter block produced by Values.
func ParseValues(cd []uint32) (Config, error) {
	c := Default()
	if len(cd) == 0 {
		c.Mode = ModeNone
		return c, nil
	}
	c.Mode = Mode(cd[0])
	switch c.Mode {
	case ModeRate:
		if len(cd) != 3 {
			return Config{}, fmt.Errorf("rate mode wants 3 values, got %d", len(cd))
		}
		c.Rate = joinDouble(cd[1], cd[2])
	case ModePrecision:
		if len(cd) != 2 {
			return Config{}, fmt.Errorf("precision mode wants 2 values, got %d", len(cd))
		}
		c.Precision = cd[1]
	case ModeAccuracy:
		if len(cd) != 3 {
			return Config{}, fmt.Errorf("accuracy mode wants 3 values, got %d", len(cd))
		}
		c.Accuracy = joinDouble(cd[1], cd[2])
	case ModeExpert:
		if len(cd) != 5 {
			return Config{}, fmt.Errorf("expert mode wants 5 values, got %d", len(cd))
		}
		c.MinBits, c.MaxBits, c.MaxPrec, c.MinExp = cd[1], cd[2], cd[3], int32(cd[4])
	default:
		return Config{}, fmt.Errorf("unknown filter mode %d", cd[0])
	}
	return c, nil
}

func (c Config) String() string {
	switch c.Mode {
	case ModeRate:
		return fmt.Sprintf("rate=%g", c.Rate)
	case ModePrecision:
		return fmt.Sprintf("precision=%d", c.Precision)
	case ModeAccuracy:
		return fmt.Sprintf("accuracy=%g", c.Accuracy)
	case ModeExpert:
		return fmt.Sprintf("expert minbits=%d maxbits=%d maxprec=%d minexp=%d",
			c.MinBits, c.MaxBits, c.MaxPrec, c.MinExp)
	default:
		return "none"
	}
}

func splitDouble(v float64) (lo, hi uint32) {
	bits := math.Float64bits(v)
	return uint32(bits), uint32(bits >> 32)
}

func joinDouble(lo, hi uint32) float64 {
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo))
}
