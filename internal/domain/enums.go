package domain

// Stage is a step of the linear generation pipeline.
type Stage string

const (
	StagePending     Stage = "pending"
	StageNormalized  Stage = "normalized"
	StageSynthesized Stage = "synthesized"
	StageAssembled   Stage = "assembled"
	StageDeployed    Stage = "deployed"
	StageIndexed     Stage = "indexed"
)

// stageOrder lists stages in pipeline order.
var stageOrder = []Stage{
	StagePending,
	StageNormalized,
	StageSynthesized,
	StageAssembled,
	StageDeployed,
	StageIndexed,
}

// Index returns the position of s in the pipeline, or -1 for unknown stages.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Reached reports whether s is at or after other in the pipeline.
func (s Stage) Reached(other Stage) bool {
	return s.Index() >= other.Index() && other.Index() >= 0
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)
