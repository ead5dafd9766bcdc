package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"resumescore/internal/errors"
	"resumescore/internal/utils"
)

// LoadedDocument is a resume file read from disk and decoded into generic values
type LoadedDocument struct {
	Path    string
	Content []byte
	Raw     any
}

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance; maxFileSize <= 0 disables the size check
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// LoadDocument validates, reads and decodes a single resume file
func (fp *FileProcessor) LoadDocument(filename string) (LoadedDocument, error) {
	if err := utils.ValidateInputFile(filename, fp.maxFileSize); err != nil {
		return LoadedDocument{}, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	if !utils.IsResumeFile(filename) && fp.logger != nil {
		fp.logger.Warn("File does not have a JSON or YAML extension, parsing as JSON",
			"filename", filename)
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return LoadedDocument{}, err
	}

	raw, err := ParseDocument(filename, content)
	if err != nil {
		return LoadedDocument{}, err
	}

	return LoadedDocument{Path: filename, Content: content, Raw: raw}, nil
}

// LoadDocuments loads each file in order, stopping at the first failure
func (fp *FileProcessor) LoadDocuments(filenames ...string) ([]LoadedDocument, error) {
	docs := make([]LoadedDocument, 0, len(filenames))
	for _, filename := range filenames {
		doc, err := fp.LoadDocument(filename)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

// ParseDocument decodes JSON or YAML content into generic values.
// An empty file decodes to nil, which scores as "no resume data".
func ParseDocument(filename string, content []byte) (any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	var raw any
	if utils.IsYAMLFile(filename) {
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument,
				fmt.Sprintf("Invalid YAML in %s", filename), err)
		}
		return raw, nil
	}

	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument,
			fmt.Sprintf("Invalid JSON in %s", filename), err)
	}
	return raw, nil
}
