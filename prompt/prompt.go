// Package prompt implements the interactive wizard used when the
// generate command is run without flags. It asks for the network
// details on the terminal, validating each answer before moving on.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hostelware/wificard/qr"
	"github.com/hostelware/wificard/wifi"
)

// Answers is what the wizard collects.
type Answers struct {
	Network wifi.Network
	Style   qr.Style
}

// Wizard reads answers from in and writes questions to out. Both are
// injectable so the flow can be driven from tests.
type Wizard struct {
	in  *bufio.Scanner
	out io.Writer

	title *color.Color
	ask   *color.Color
	dim   *color.Color
	bad   *color.Color
}

// NewWizard creates a wizard bound to the given streams.
func NewWizard(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		in:    bufio.NewScanner(in),
		out:   out,
		title: color.New(color.FgCyan, color.Bold),
		ask:   color.New(color.FgGreen),
		dim:   color.New(color.Faint),
		bad:   color.New(color.FgRed),
	}
}

// Run walks through the questions and returns the collected answers.
// It returns io.EOF if the input ends before the wizard is done.
func (w *Wizard) Run() (*Answers, error) {
	w.title.Fprintln(w.out, "── Wi-Fi card wizard ──")
	w.dim.Fprintln(w.out, "Answer the questions below; press Enter to accept a default.")
	fmt.Fprintln(w.out)

	ssid, err := w.askSSID()
	if err != nil {
		return nil, err
	}

	sec, err := w.askSecurity()
	if err != nil {
		return nil, err
	}

	var password string
	if sec != wifi.SecurityNone {
		password, err = w.askPassword(ssid, sec)
		if err != nil {
			return nil, err
		}
	}

	hidden, err := w.askYesNo("Hidden network?", false)
	if err != nil {
		return nil, err
	}

	style, err := w.askStyle()
	if err != nil {
		return nil, err
	}

	return &Answers{
		Network: wifi.Network{
			SSID:     ssid,
			Password: password,
			Security: sec,
			Hidden:   hidden,
		},
		Style: style,
	}, nil
}

func (w *Wizard) askSSID() (string, error) {
	for {
		line, err := w.readLine("Network name (SSID): ")
		if err != nil {
			return "", err
		}
		n := wifi.Network{SSID: line, Security: wifi.SecurityNone}
		if err := n.Validate(); err != nil {
			w.bad.Fprintf(w.out, "  %v\n", err)
			continue
		}
		return line, nil
	}
}

func (w *Wizard) askSecurity() (wifi.Security, error) {
	fmt.Fprintln(w.out, "Security:")
	fmt.Fprintln(w.out, "  1) WPA/WPA2/WPA3")
	fmt.Fprintln(w.out, "  2) WEP")
	fmt.Fprintln(w.out, "  3) Open (no password)")
	for {
		line, err := w.readLine("Choice [1]: ")
		if err != nil {
			return "", err
		}
		switch line {
		case "", "1":
			return wifi.SecurityWPA, nil
		case "2":
			return wifi.SecurityWEP, nil
		case "3":
			return wifi.SecurityNone, nil
		}
		w.bad.Fprintln(w.out, "  pick 1, 2 or 3")
	}
}

func (w *Wizard) askPassword(ssid string, sec wifi.Security) (string, error) {
	for {
		line, err := w.readLine("Password: ")
		if err != nil {
			return "", err
		}
		n := wifi.Network{SSID: ssid, Password: line, Security: sec}
		if err := n.Validate(); err != nil {
			w.bad.Fprintf(w.out, "  %v\n", err)
			continue
		}
		return line, nil
	}
}

func (w *Wizard) askStyle() (qr.Style, error) {
	fmt.Fprintln(w.out, "Style:")
	fmt.Fprintln(w.out, "  1) Classic (black and white modules)")
	fmt.Fprintln(w.out, "  2) Artistic (rounded, tinted, room for a logo)")
	for {
		line, err := w.readLine("Choice [1]: ")
		if err != nil {
			return "", err
		}
		switch line {
		case "", "1":
			return qr.StyleClassic, nil
		case "2":
			return qr.StyleArtistic, nil
		}
		w.bad.Fprintln(w.out, "  pick 1 or 2")
	}
}

func (w *Wizard) askYesNo(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		line, err := w.readLine(fmt.Sprintf("%s [%s]: ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		w.bad.Fprintln(w.out, "  answer y or n")
	}
}

// readLine prints the prompt and returns the next trimmed input line.
func (w *Wizard) readLine(prompt string) (string, error) {
	w.ask.Fprint(w.out, prompt)
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(w.in.Text()), nil
}
