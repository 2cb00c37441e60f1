package config

import (
	"bytes"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

const generatedHeader = `# buildtiming project configuration
#
# Place this file next to the package holding the go:generate directive:
#
#   //go:generate buildtiming generate
#
# Every key is optional. See "buildtiming gen-config --help".

`

// Example returns a project configuration exercising every option
func Example() Config {
	return Config{
		Package:       "",
		Pattern:       "lazy",
		IfPathChanged: []string{},
		IfEnvChanged:  []string{},
		Allow:         []string{"BUILD_OS", "BUILD_TIME", "GO_VERSION"},
		Constants: []Constant{
			{
				Name:        "APP_NAME",
				Value:       "myapp",
				Description: "Name of the application.",
			},
			{
				Name:        "RELEASE_CHANNEL",
				Env:         "RELEASE_CHANNEL",
				Value:       "dev",
				Description: "Release channel, read from $RELEASE_CHANNEL.",
			},
			{
				Name:        "USER_AGENT",
				Kind:        "template",
				Value:       "{APP_NAME}/{RELEASE_CHANNEL} ({BUILD_OS})",
				Description: "HTTP user agent.",
			},
		},
	}
}

// GenerateConfigContent renders a starter project file. With commented set
// every value is commented out so the file documents the options without
// changing behaviour.
func GenerateConfigContent(commented bool) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(Example()); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode example configuration")
	}

	content := buf.String()
	if commented {
		content = commentOutConfigValues(content)
	}
	return generatedHeader + content, nil
}

// commentOutConfigValues comments out every assignment and array table
// header, keeping blank lines, comments and plain section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
