package constants

import "encoding/json"

// QueueMessageTypeCompletion tags events published after a verdict is stored.
const QueueMessageTypeCompletion = "completion"

// Result messages shown to the user.
const (
	SolutionMessageSuccess             = "solution executed successfully"
	SolutionMessageAccepted            = "all test cases passed"
	SolutionMessageRuntimeError        = "solution returned non-zero exit code"
	SolutionMessageTimeout             = "time limit exceeded"
	SolutionMessageMemoryLimitExceeded = "memory limit exceeded"
	SolutionMessageOutputDifference    = "output difference"
	SolutionMessageInternalError       = "internal error occurred"
	SolutionMessageCompilationError    = "compilation error occurred"
	CompilationMessageTimeout          = "compilation exceeded the time limit"
)

// WorkerStatus is the coarse state of the submission worker.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (s WorkerStatus) String() string {
	switch s {
	case WorkerStatusIdle:
		return "idle"
	case WorkerStatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

func (s WorkerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Exit codes.
const (
	ExitCodeSuccess             = 0
	ExitCodeMemoryLimitExceeded = 137
)

// Configuration constants.
const (
	DefaultRabbitmqHost      = "localhost"
	DefaultRabbitmqUser      = "guest"
	DefaultRabbitmqPassword  = "guest"
	DefaultRabbitmqPort      = "5672"
	DefaultJobsQueueName     = "judge_jobs"
	DefaultEventsQueueName   = "judge_events"
	DefaultDBHost            = "postgres"
	DefaultDBPort            = "5432"
	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBName            = "judge"
	DefaultDBSslMode         = "disable"
	DefaultMinioEndpoint     = "minio:9000"
	DefaultMinioAccessKey    = "minioadmin"
	DefaultMinioSecretKey    = "minioadmin"
	DefaultMinioBucket       = "judge"
	DefaultRedisTTLMinutes   = 30
	DefaultWorkspaceRoot     = "/tmp"
	DefaultSandboxMemoryMB   = 256
	DefaultSandboxCPUs       = 1.0
	DefaultSandboxPidsLimit  = 64
	DefaultSandboxUser       = "nobody"
	DefaultExecTimeoutSec    = 10
	DefaultMaxOutputBytes    = 10 * 1024 * 1024
	DefaultHTTPPort          = "8080"
	DefaultRateLimitRPS      = 5.0
	DefaultRateLimitBurst    = 10
	DefaultLogDir            = "logs"
	SandboxKeepAliveCommand  = "sleep"
	SandboxKeepAliveArgument = "infinity"
	SandboxBindMountTarget   = "/sandbox"
	SandboxContainerPrefix   = "sandbox-"
	ContainerCleanupTimeout  = 10
	ExecInspectPollInterval  = 10
)

// Object storage layout.
const (
	ProblemsPrefix        = "problems"
	TestsDirName          = "tests"
	InputFileExt          = ".in"
	OutputFileExt         = ".out"
	ExplanationFileExt    = ".txt"
	TestCasesCacheKeyBase = "judge:tests:"
)

// RabbitMQ specific constants.
const (
	RabbitMQReconnectTries = 10
	RabbitMQPrefetchCount  = 1
)
