package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConfirmFunc asks whether to spend estimatedCost USD. Only an explicit yes
// lets the run continue.
type ConfirmFunc func(estimatedCost float64) (bool, error)

// promptConfirm asks on out and reads one line from in. "y" in any case
// proceeds; anything else, including EOF, declines.
func promptConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	return func(estimatedCost float64) (bool, error) {
		fmt.Fprintf(out, "Estimated cost is $%.2f. Do you want to proceed? (y/n): ", estimatedCost)

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return strings.ToLower(strings.TrimSpace(line)) == "y", nil
	}
}
