package models

import (
	"fmt"
	"strconv"
)

// StepConfig configures one transformation step.
//
// Example:
//
//	{
//	  "operation": "replace_text",            // registered operation key
//	  "target_fields": ["scopecontent.p"],    // null = every string field
//	  "parameters": {"match": "\n", "replace": "<p>"}
//	}
type StepConfig struct {
	Operation    string         `json:"operation" validate:"required"`
	TargetFields []string       `json:"target_fields"`
	Parameters   map[string]any `json:"parameters"`
}

// TransformationConfig maps step index ("1".."N") to its StepConfig.
// Indices must be contiguous starting at 1.
type TransformationConfig map[string]StepConfig

// Step returns the config for a 1-based step index.
func (c TransformationConfig) Step(index int) (StepConfig, bool) {
	cfg, ok := c[strconv.Itoa(index)]
	return cfg, ok
}

// Validate checks that step indices are contiguous starting at 1 and that
// every step names an operation.
func (c TransformationConfig) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("transformation config is empty")
	}
	for i := 1; i <= len(c); i++ {
		cfg, ok := c.Step(i)
		if !ok {
			return fmt.Errorf("transformation config is missing step %d", i)
		}
		if cfg.Operation == "" {
			return fmt.Errorf("step %d does not specify an operation", i)
		}
	}
	return nil
}

// FinalStep returns the highest configured step index.
func (c TransformationConfig) FinalStep() int {
	return len(c)
}

// StepEvent is the invocation payload for a single (record, step) pair.
type StepEvent struct {
	Bucket               string               `json:"bucket" validate:"required"`
	Key                  string               `json:"key" validate:"required"`
	TransformationIndex  int                  `json:"transformation_index" validate:"required,min=1"`
	TransformationConfig TransformationConfig `json:"transformation_config" validate:"required"`
	ExecutionID          string               `json:"execution_id" validate:"required"`
}

// StepResult is the status-coded result of one step invocation. Callers
// branch on StatusCode: 200 continues the pipeline, 500 halts it; a skip is
// a 200 with Skipped set.
type StepResult struct {
	StatusCode          int    `json:"statusCode"`
	ExecutionID         string `json:"execution_id,omitempty"`
	TransformationIndex int    `json:"transformation_index,omitempty"`
	Operation           string `json:"operation,omitempty"`
	OutputKey           string `json:"output_key,omitempty"`
	SuccessMarker       string `json:"success_marker,omitempty"`
	Message             string `json:"message,omitempty"`
	Skipped             bool   `json:"skipped,omitempty"`
	Reason              string `json:"reason,omitempty"`
	Error               string `json:"error,omitempty"`
}

// FinalizeEvent triggers archive assembly and the register update after the
// final step has completed for every record of an execution.
type FinalizeEvent struct {
	Bucket      string `json:"bucket" validate:"required"`
	ExecutionID string `json:"execution_id" validate:"required"`
	FinalStep   int    `json:"final_step" validate:"required,min=1"`
	TreeName    string `json:"tree_name" validate:"required"`
	LevelField  string `json:"level_field"`
}

// FinalizeResult summarizes archive assembly for one execution.
type FinalizeResult struct {
	StatusCode        int                 `json:"statusCode"`
	Status            string              `json:"status,omitempty"`
	ExecutionID       string              `json:"execution_id,omitempty"`
	TarballsCreated   int                 `json:"tarballs_created,omitempty"`
	Tarballs          []ArchiveDescriptor `json:"tarballs,omitempty"`
	RecordsRegistered int                 `json:"records_registered,omitempty"`
	Message           string              `json:"message,omitempty"`
	Error             string              `json:"error,omitempty"`
}
