package cfg

type Cfg struct {
	// Storage configuration. When GCPBucket is set the feeds persist to
	// Cloud Storage; otherwise they live under LocalStoragePath.
	GCPBucket        string
	LocalStoragePath string

	// Application configuration
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// HTTP client configuration
	UserAgent    string
	FetchTimeout int
	KarmaTimeout int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
