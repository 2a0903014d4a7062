// Package config loads, validates and defaults the process configuration:
// notification credentials, camera selection and the motion/scheduling
// tuning knobs. Settings come from a YAML file with environment (and .env)
// overrides for the credentials.
package config
