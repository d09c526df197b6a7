// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader and ConfigurationWriter pair that read and
// persist gahcheck configuration through Viper and YAML, the LoggerFactory that
// builds diagnostic and console zap loggers, and small helpers shared by the
// command builders.
package utils
