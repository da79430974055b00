package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezerfernandes/mdsplit/internal/history"
)

var errMissingPaths = errors.New("both an input and an output path are required")

// prompt asks for the paths that were not given, offering recent runs first
// when neither was.
func prompt(in io.Reader, out io.Writer, journal *history.Journal, input, output string) (string, string, error) {
	scanner := bufio.NewScanner(in)

	recent := journal.Recent(history.DisplayLimit)

	if len(input) == 0 && len(output) == 0 && len(recent) > 0 {
		fmt.Fprintln(out, "Recent runs:")
		printRuns(out, recent)
		fmt.Fprintf(out, "%d. New run\n", len(recent)+1)
		fmt.Fprint(out, "Enter the number of the run you want to execute (or press Enter for a new run): ")

		choice, err := strconv.Atoi(readLine(scanner))
		if err == nil && choice >= 1 && choice <= len(recent) {
			entry := recent[choice-1]

			return entry.Input, entry.Output, nil
		}
	}

	if len(input) == 0 {
		fmt.Fprint(out, "Enter the input path: ")
		input = readLine(scanner)
	}

	if len(output) == 0 {
		fmt.Fprint(out, "Enter the output path: ")
		output = readLine(scanner)
	}

	if len(input) == 0 || len(output) == 0 {
		return "", "", errMissingPaths
	}

	return input, output, nil
}

func readLine(scanner *bufio.Scanner) string {
	if !scanner.Scan() {
		return ""
	}

	return strings.TrimSpace(scanner.Text())
}
