package entity

import "time"

type ScanRunStatus string

const (
	ScanRunStatusRunning  ScanRunStatus = "running"
	ScanRunStatusFinished ScanRunStatus = "finished"
	ScanRunStatusFailed   ScanRunStatus = "failed"
)

// ScanStats - счётчики одного тика.
type ScanStats struct {
	Fetched        int `json:"fetched"`
	Filtered       int `json:"filtered"`
	Known          int `json:"known"`
	NearDuplicates int `json:"near_duplicates"`
	New            int `json:"new"`
	Scored         int `json:"scored"`
	Published      int `json:"published"`
	SourceErrors   int `json:"source_errors"`
}

type ScanRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     ScanRunStatus
	Message    string
	Stats      ScanStats
}
