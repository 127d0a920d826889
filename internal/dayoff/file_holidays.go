package dayoff

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HolidaySource provides company holidays
type HolidaySource interface {
	Holidays(ctx context.Context) ([]Holiday, error)
}

// FileHolidays reads extra holidays from a local text file.
// Format: one "YYYY-MM-DD [name]" per line, '#' starts a comment.
// Example: 2025-12-24 Christmas Eve (office closed)
type FileHolidays struct {
	filePath string
	logger   *zap.Logger
}

// NewFileHolidays creates a new FileHolidays source
func NewFileHolidays(filePath string, logger *zap.Logger) *FileHolidays {
	return &FileHolidays{
		filePath: filePath,
		logger:   logger,
	}
}

// Holidays loads the file. The file is read on every call, nothing is cached.
func (fh *FileHolidays) Holidays(ctx context.Context) ([]Holiday, error) {
	file, err := os.Open(fh.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	var holidays []Holiday
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		date, err := time.ParseInLocation("2006-01-02", parts[0], time.Local)
		if err != nil {
			fh.logger.Warn("Skipping invalid holiday line",
				zap.String("file", fh.filePath),
				zap.Int("line", lineNo),
				zap.String("content", line),
				zap.Error(err))
			continue
		}

		name := ""
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}

		holidays = append(holidays, Holiday{Date: date, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holidays file: %w", err)
	}

	fh.logger.Info("Holidays file loaded",
		zap.String("file", fh.filePath),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}
