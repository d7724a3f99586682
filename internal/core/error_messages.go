package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: Input exceeds the configured size limit
//	          Action: Split the batch into smaller files
//	          Patterns: "file too large"
//
//	FILE002 - File not found: Input file does not exist or cannot be opened
//	          Action: Check the --input path
//	          Patterns: "no such file", "permission denied"
//
//	FILE003 - Invalid JSON: Input is not a JSON array of records
//	          Action: Ensure the file contains a JSON array of objects
//	          Patterns: "invalid json"
//
//	FILE004 - Missing field: A record lacks one of the nine required keys
//	          Action: Add the missing key to every record
//	          Patterns: "missing required field"
//
//	FILE005 - Empty file: The input contains no data
//	          Action: Provide a JSON array (use [] for an empty batch)
//	          Patterns: "empty file"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid value: A text field holds a number, object or array
//	         Action: Quote text fields as JSON strings
//	         Patterns: "invalid record value"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Busy: Too many batches are being processed
//	RUN002 - Cancelled: The run was cancelled
//	RUN003 - Timeout: The run timed out
//	RUN004 - Run not found: No run with that ID is in the history
//	RUN005 - Invalid sort key: Sort must be none, weight or age
//	RUN006 - Invalid format: Output format must be blocks, json or yaml
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Input exceeds the maximum size limit",
			Action:  "Split the batch into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check the --input path",
			Code:    "FILE002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Input file cannot be opened",
			Action:  "Check the file permissions",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "Input is not a valid JSON array of records",
			Action:  "Ensure the file contains a JSON array of objects",
			Code:    "FILE003",
		},
	},
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A record is missing a required field",
			Action:  "Every record needs all nine keys",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The input is empty",
			Action:  "Provide a JSON array (use [] for an empty batch)",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001)
	// =========================================================================
	{
		pattern: "invalid record value",
		msg: UserMessage{
			Message: "A text field holds a non-text value",
			Action:  "Quote text fields as JSON strings",
			Code:    "VAL001",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN006)
	// =========================================================================
	{
		pattern: "too many batches",
		msg: UserMessage{
			Message: "System is busy processing other batches",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start the run again when ready",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run timed out",
			Action:  "Try a smaller batch",
			Code:    "RUN003",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "Run not found",
			Action:  "The run may have expired from the history",
			Code:    "RUN004",
		},
	},
	{
		pattern: "invalid sort key",
		msg: UserMessage{
			Message: "Unknown sort key",
			Action:  "Use none, weight or age",
			Code:    "RUN005",
		},
	},
	{
		pattern: "invalid output format",
		msg: UserMessage{
			Message: "Unknown output format",
			Action:  "Use blocks, json or yaml",
			Code:    "RUN006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern (not ERR000).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
