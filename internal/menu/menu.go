// Package menu implements the interactive strategy selection loop.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joeycumines/go-prodcons"
)

// Exit is the menu option that ends the loop.
const Exit = 5

const prompt = `Please input an integer from 1 to 5: `

// RunFunc performs a single run of the selected strategy.
type RunFunc func(ctx context.Context, strategy prodcons.Strategy) error

// Loop repeatedly shows the menu, reading a selection from in, performing
// the selected run, and reporting its result to out, until Exit is selected,
// in reaches EOF, or ctx is canceled. Invalid input is reported, then
// re-prompted. The code of the last run is returned.
func Loop(ctx context.Context, in io.Reader, out io.Writer, run RunFunc) (prodcons.Code, error) {
	if run == nil {
		panic(`menu: nil run func`)
	}

	scanner := bufio.NewScanner(in)
	code := prodcons.CodeOK

	if err := writeMenu(out); err != nil {
		return code, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return code, err
		}

		if _, err := io.WriteString(out, prompt); err != nil {
			return code, err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return code, err
			}
			_, err := io.WriteString(out, "\n")
			return code, err
		}

		option, ok := parseOption(scanner.Text())
		if !ok {
			if _, err := fmt.Fprintf(out, "Invalid input %q, expected an integer from 1 to %d.\n", scanner.Text(), Exit); err != nil {
				return code, err
			}
			continue
		}

		if option == Exit {
			return code, nil
		}

		err := run(ctx, prodcons.Strategy(option))
		code = prodcons.CodeOf(err)

		if _, err := fmt.Fprintln(out, Message(code)); err != nil {
			return code, err
		}

		if err := writeMenu(out); err != nil {
			return code, err
		}
	}
}

// Message returns the human-readable result category of code.
func Message(code prodcons.Code) string {
	switch code {
	case prodcons.CodeOK:
		return `Finished successfully`
	case prodcons.CodeSync:
		return `Not all threads finished correctly`
	case prodcons.CodeAPI:
		return `API error`
	default:
		return `Error occurred with the code ` + strconv.Itoa(int(code))
	}
}

func parseOption(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > Exit {
		return 0, false
	}
	return v, true
}

func writeMenu(out io.Writer) error {
	var b strings.Builder
	b.WriteString("Choose a coordination strategy:\n")
	for _, s := range prodcons.Strategies() {
		fmt.Fprintf(&b, "%d. %s\n", int(s), s.Description())
	}
	fmt.Fprintf(&b, "%d. Exit\n", Exit)
	_, err := io.WriteString(out, b.String())
	return err
}
