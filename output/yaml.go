package output

import (
	"gopkg.in/yaml.v3"

	"profiler/core"
)

type yamlFormatter struct{}

func (yamlFormatter) Format(profile *core.SchemaProfile) (string, error) {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
