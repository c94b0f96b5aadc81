package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
)

var exportMu sync.Mutex

var speakerNames = map[akinator.Speaker]string{
	akinator.SpeakerUser:   "User",
	akinator.SpeakerOracle: "Akinator",
}

// ExportTranscript appends a finished game to filename.
func ExportTranscript(s akinator.Session, reason akinator.EndReason, filename string) error {
	exportMu.Lock()
	defer exportMu.Unlock()

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("Kotoba Akinator - Session %s\n", s.ID))
	sb.WriteString(fmt.Sprintf("Started: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Mode: %s, Level: %s\n", s.Role, s.Tier))
	if s.SecretWord != "" {
		sb.WriteString(fmt.Sprintf("Word: %s (%s)\n", s.SecretWord, s.SecretMeaning))
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, t := range s.History {
		name := speakerNames[t.Speaker]
		if name == "" {
			name = string(t.Speaker)
		}
		text := strings.ReplaceAll(t.Text, "\n", " ")
		sb.WriteString(fmt.Sprintf("%3d. %s: %s\n", i+1, name, text))
	}

	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Result: %s after %d oracle turn(s)\n", reason, s.OracleTurns()))
	sb.WriteString(fmt.Sprintf("Game ended at %s\n", s.UpdatedAt.Format(time.DateTime)))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
