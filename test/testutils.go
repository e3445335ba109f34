package test

import "os"

// WriteToFile writes one line per entry to an open file
func WriteToFile(file *os.File, lines []string) error {
	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteLines creates path and writes one line per entry to it
func WriteLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteToFile(file, lines)
}
