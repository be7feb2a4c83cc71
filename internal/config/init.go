package config

import (
	"fmt"
	"os"

	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
)

const defaultConfigTemplate = `# doxyfx configuration
input:
  # Directory the documentation extractor ran in.
  dir: .
  # XML files to convert, relative to input.dir.
  glob: doxygen/xml/{class,struct,namespace}*.xml

output:
  directory: .
  api_root: api

project:
  prefix: qiotoolkit
  namespace_matcher: /namespacematcher
  suppressed:
    - api/std/optional.yml
    - api/ValueSetter/3_01std_optional_3_01T_01_4_01_4.yml

gate:
  report: cppcheck.xml
  error_threshold: 4
  warning_threshold: 23
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return doxyerrors.NewConfigError(
			fmt.Sprintf("configuration file %s already exists (use --force to overwrite)", configPath), nil)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return doxyerrors.NewConfigError("failed to write config file", err)
	}
	return nil
}
