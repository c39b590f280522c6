// Package serializer writes values as JSON, YAML or a flattened table.
//
// Usage:
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "summary.yaml")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	return w.Serialize(ctx, summary)
//
// The table format flattens nested structs, maps and slices into sorted
// dotted keys, e.g. Files.[0].
package serializer
