package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/keyshape"
)

var checkCmd = &cobra.Command{
	Use:   "check --schema schema.yaml data.yaml [data2.yaml ...]",
	Short: "Validate data files against a schema document",
	Long:  `Reads a schema document and one or more YAML/JSON data files, validates each file, and reports every violation with its path.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schemaPath, _ := cmd.Flags().GetString("schema")
		strict, _ := cmd.Flags().GetBool("strict")
		shallow, _ := cmd.Flags().GetBool("shallow-strict")
		full, _ := cmd.Flags().GetBool("full")
		verbose, _ := cmd.Flags().GetBool("verbose")

		schema, err := loadSchema(schemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyshape: %v\n", err)
			os.Exit(2)
		}

		var opts []keyshape.Option
		if strict {
			opts = append(opts, keyshape.WithStrict())
		}
		if shallow {
			opts = append(opts, keyshape.WithStrictShallow())
		}
		if full {
			opts = append(opts, keyshape.WithFull())
		}
		if verbose {
			opts = append(opts, keyshape.WithVerbose())
		}
		validator := keyshape.New(opts...)

		failed := false
		for _, path := range args {
			data, err := loadDocument(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "keyshape: %v\n", err)
				os.Exit(2)
			}

			ok, violations := validator.Check(data, schema)
			if ok {
				fmt.Printf("%s: ok\n", path)
				continue
			}
			failed = true
			for _, v := range violations {
				fmt.Printf("%s: %s\n", path, v)
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringP("schema", "s", "", "Path to the schema document (required)")
	checkCmd.MarkFlagRequired("schema")
	checkCmd.Flags().Bool("strict", false, "Reject undeclared keys in every nested mapping")
	checkCmd.Flags().Bool("shallow-strict", false, "Reject undeclared keys at the top level only (legacy)")
	checkCmd.Flags().Bool("full", false, "Report every violation instead of stopping at the first")
	checkCmd.Flags().Bool("verbose", false, "Name the offending keys in extra-member violations")
	rootCmd.AddCommand(checkCmd)
}

func loadSchema(path string) (keyshape.Schema, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	schema, err := keyshape.ParseSchemaDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// loadDocument reads a YAML (or JSON, a YAML subset) file into a map.
func loadDocument(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
