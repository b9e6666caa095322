// Package config loads media indexer configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML file,
// environment variables. The file path comes from CONFIG_FILE and defaults
// to ./media-indexer.yaml; a missing file is not an error.
//
// Environment variables: MEDIA_ROOT, PORT, ALLOW_LABELS (comma-separated
// glob patterns for application/* category labels), LOG_STATIC_FILES.
package config
