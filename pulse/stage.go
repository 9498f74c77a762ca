package pulse

//go:generate go tool stringer -type=Stage -trimprefix=Stage

// Stage is the pipeline stage a shader function is an entry point for.
type Stage uint8

const (
	StageVertex Stage = iota + 1
	StageFragment
)
