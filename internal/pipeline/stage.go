package pipeline

// Stage is a pipeline state.
type Stage string

const (
	StageIdle              Stage = "idle"
	StageClassifying       Stage = "classifying"
	StageExtracting        Stage = "extracting"
	StageUploading         Stage = "uploading"
	StageBuildingReference Stage = "building_reference"
	StageDispatching       Stage = "dispatching"
	StageCompleted         Stage = "completed"
)
