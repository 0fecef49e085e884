package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/lexer"
	"github.com/mcncl/cuebasic/internal/models"
)

// ParseString lexes and flattens a whole document.
func ParseString(src string) ([]models.Assignment, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Flatten(tokens)
}

// Parse reads reader to the end and parses its contents.
func Parse(reader io.Reader) ([]models.Assignment, error) {
	src, err := Read(reader)
	if err != nil {
		return nil, err
	}
	return ParseString(src)
}

// ParseFile parses the document stored at filePath.
func ParseFile(filePath string) ([]models.Assignment, error) {
	src, err := ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseString(src)
}

// Read returns everything readable from reader as source text.
func Read(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.NewInputError("failed to read input", err)
	}
	return string(data), nil
}

// ReadFile returns the contents of filePath as source text.
func ReadFile(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	return Read(file)
}
