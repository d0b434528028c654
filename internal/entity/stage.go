package entity

// Stage is a state of the scrape state machine:
//
//	idle -> cache_lookup -> cache_hit -> done
//	idle -> cache_lookup -> detecting -> extracting -> classifying -> persisting -> done
//
// Any stage may move to failed, which is terminal.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageCacheLookup Stage = "cache_lookup"
	StageCacheHit    Stage = "cache_hit"
	StageDetecting   Stage = "detecting"
	StageExtracting  Stage = "extracting"
	StageClassifying Stage = "classifying"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)
