package model

// TaskStatus represents the lifecycle state of a download task
type TaskStatus string

const (
	// TaskStatusStarting means the worker was spawned but has not resolved options yet
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusProbing means a playlist metadata probe is running
	TaskStatusProbing TaskStatus = "Probing"

	// TaskStatusDownloading means bytes are flowing
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means an item finished downloading and is being merged or converted
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusCancelling means the user asked to stop and the worker has not observed it yet
	TaskStatusCancelling TaskStatus = "Cancelling"

	// TaskStatusCancelled means the task was stopped by the user
	TaskStatusCancelled TaskStatus = "Cancelled"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while a worker owns the task
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusStarting, TaskStatusProbing, TaskStatusDownloading,
		TaskStatusProcessing, TaskStatusCancelling:
		return true
	}
	return false
}

// Outcome is the terminal result of an asynchronous operation.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// TaskStatus maps an outcome onto the task state it leaves behind.
func (o Outcome) TaskStatus() TaskStatus {
	switch o {
	case OutcomeCompleted:
		return TaskStatusCompleted
	case OutcomeCancelled:
		return TaskStatusCancelled
	default:
		return TaskStatusError
	}
}
