package common

import (
	"context"
	"fmt"
	"io"

	"resumescore/internal/errors"
)

// DocumentOperationFunc runs the command's work over the loaded documents
type DocumentOperationFunc[Output any] func(context.Context, []LoadedDocument) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(docs []LoadedDocument, cfg CommandConfig)

// RunDocumentCommand encapsulates the common logic for file-based CLI commands:
// load and decode the inputs, run the operation, format and write the result.
func RunDocumentCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	out io.Writer,
	args []string,
	operation DocumentOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger, out)

	docs, err := fileProcessor.LoadDocuments(args...)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(docs, cmdConfig)
	}

	result, err := operation(ctx, docs)
	if err != nil {
		return fmt.Errorf("operation failed: %w", err)
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
