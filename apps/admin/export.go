package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// export prints the stored state. YAML keeps the JSON field names of the stored record.
func (cli *commandLine) export(format string) error {
	data, err := json.MarshalIndent(cli.store.Snapshot(), "", "  ")
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		_, err = fmt.Fprintln(cli.out, string(data))
		return err
	case formatYAML:
		var doc interface{}
		if err = json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(cli.out)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
