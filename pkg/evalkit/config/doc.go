/*
Package config provides type-safe configuration extraction and loading for
evalkit hosts.

# Overview

Config wraps a map[string]any decoded from YAML or JSON and exposes typed
accessors that return a default when a key is missing or has the wrong type.

	cfg, err := config.FromFile("evalkit.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	settings := cfg.Settings()

# Keys

	cache_size:       compiled-tree cache entries (default 256, 0 disables)
	cache_max_age:    entry lifetime, "10m" or seconds (default unlimited)
	max_depth:        maximum operator tree depth (default 0, unlimited)
	metrics:          record OpenTelemetry metrics (default false)
	tracing:          open OpenTelemetry spans (default false)
	snapshot_path:    SQLite file for context snapshots (default none)
	disable_builtins: hide the built-in function catalog (default false)
	variables:        map of seed bindings

# Seed Variables

Values under variables are converted with ValueOf: strings, booleans,
integers and floats map to the matching value kinds, sequences become
tuples and null becomes the empty value.

	variables:
	  limit: 10
	  ratio: 0.5
	  name: "evalkit"
	  pair: [1, "two"]

JSON input keeps numbers as json.Number, so 1 stays an integer and 1.0 a
float.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
