package util

import (
	"os"
	"strings"
)

const EnvironmentPrefix = "BUSMITRA_"

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// GetSetting returns BUSMITRA_<name> from the environment, or fallback when unset or empty
func GetSetting(name string, fallback string) string {
	if value := os.Getenv(EnvironmentPrefix + name); value != "" {
		return value
	}

	return fallback
}
