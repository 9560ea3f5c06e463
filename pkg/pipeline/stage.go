package pipeline

// Stage is a state of a single run.
type Stage string

const (
	StageReceived   Stage = "received"
	StageFetching   Stage = "fetching"
	StageStaging    Stage = "staging"
	StageConverting Stage = "converting"
	StageAssembling Stage = "assembling"
	StageRendered   Stage = "rendered"
	StageFailed     Stage = "failed"
)

// Stages lists the working stages in execution order.
func Stages() []Stage {
	return []Stage{StageReceived, StageFetching, StageStaging, StageConverting, StageAssembling}
}

// Terminal reports whether no further transition leaves s.
func (s Stage) Terminal() bool {
	return s == StageRendered || s == StageFailed
}

func (s Stage) String() string {
	return string(s)
}
