package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/study"
)

var errQuit = errors.New("quit")

func (a *app) studyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study <deck-id>",
		Short: "Go through a deck card by card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}

			s := study.NewSession(a.api, a.notify)
			if err := s.Load(cmd.Context(), deckID); err != nil {
				return err
			}

			for {
				err := a.studyPass(cmd, s)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					return err
				}

				again, err := a.readLine(cmd, "r — начать заново, Enter — выход: ")
				if err != nil || !strings.EqualFold(strings.TrimSpace(again), "r") {
					return nil
				}
				if err := s.Restart(cmd.Context()); err != nil {
					return err
				}
			}
		},
	}
}

// studyPass runs until the session completes or the user quits.
func (a *app) studyPass(cmd *cobra.Command, s *study.Session) error {
	out := cmd.OutOrStdout()

	for {
		st := s.Snapshot()
		switch st.Status {
		case study.Empty:
			fmt.Fprintln(out, "В колоде нет карточек")
			return errQuit
		case study.Completed:
			fmt.Fprintf(out, "Готово! Запомнено: %d, не запомнено: %d\n", st.RememberedCount, st.ForgottenCount)
			return nil
		}

		card := st.Current()
		if card == nil {
			return errQuit
		}

		if !st.ShowAnswer {
			fmt.Fprintf(out, "\n[%d/%d, %d%%] %s\n", st.CurrentIndex+1, len(st.Cards), st.Progress, card.Question)
			line, err := a.prompt(cmd, "Enter — показать ответ, q — выход: ")
			if err != nil {
				return err
			}
			if line == "q" {
				return errQuit
			}
			s.RevealAnswer()
			fmt.Fprintf(out, "Ответ: %s\n", card.Answer)
		}

		line, err := a.prompt(cmd, "Запомнили? y — да, n — нет, h — скрыть ответ, q — выход: ")
		if err != nil {
			return err
		}
		switch line {
		case "q":
			return errQuit
		case "h":
			s.ToggleAnswer()
		case "y", "n":
			// Failures are reported by the session; the card stays on screen.
			_ = s.Submit(cmd.Context(), line == "y")
		}
	}
}

// prompt reads a lower-cased answer. End of input counts as quitting.
func (a *app) prompt(cmd *cobra.Command, text string) (string, error) {
	line, err := a.readLine(cmd, text)
	if errors.Is(err, io.EOF) {
		return "q", nil
	}
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
