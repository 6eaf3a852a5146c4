// Package cli holds the shared plumbing of the audioproject command:
// kubectl-style deployment contexts, per-user paths, project file loading,
// result output (YAML, JSON, table), logging setup and terminal styles.
//
// Configuration lives in ~/.audioproject/<app>/config.yaml:
//
//	current_context: prod
//	contexts:
//	  prod:
//	    name: prod
//	    provider: google
//	    credentials_file: /secrets/tts.json
//	    storage:
//	      backend: gcs
//	      bucket: audio-female
package cli
