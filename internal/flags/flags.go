package flags

// Centralized definitions for CLI flags used across the application

const (
	// Bucket flags select the target Spaces bucket, overriding the configured one
	Bucket      = "bucket"
	BucketShort = "b"

	// Key flags select a single object; when set, load ignores the prefix
	Key      = "key"
	KeyShort = "k"

	// Prefix flags restrict enumeration to a key prefix
	Prefix = "prefix"

	// Recursive flags control descent into subdirectories during enumeration
	Recursive = "recursive"

	// Ext flags restrict loading to the given file extensions
	Ext = "ext"

	// Limit flags cap how many files are loaded
	Limit = "limit"

	// Workers flags bound parallel fetching inside the directory reader
	Workers = "workers"

	// ExistOk flags make mkdir tolerate an already-existing path
	ExistOk = "exist-ok"

	// Debug flags are used to enable verbose logging
	Debug      = "debug"
	DebugShort = "d"
)
