// Package errors provides structured error types for better observability
// and programmatic error handling across tsbutil.
//
// Every failure in a generation run is fatal. The code tells the CLI (and
// tests) which stage failed:
//
//	CONFIG_IO               configuration file missing or unreadable
//	CONFIG_VALIDATION       schema or enum violation, with the field path
//	TEMPLATE_RENDER         unknown template or missing parameter
//	CERTIFICATE_GENERATION  openssl exited non-zero
//	FILESYSTEM              directory creation, write or rename failure
//	INVALID_NAME            derived name breaks DNS-1123 rules
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeConfigValidation,
//	    "invalid routing mode",
//	    cause,
//	    map[string]any{
//	        "field": "mode",
//	        "value": "sideways",
//	    },
//	)
package errors
