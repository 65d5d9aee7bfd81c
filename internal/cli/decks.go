package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/models"
)

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

func pageFooter[T any](w io.Writer, p *models.Page[T]) {
	if p.TotalPages > 1 {
		fmt.Fprintf(w, "Страница %d из %d, всего %d\n", p.Page+1, p.TotalPages, p.TotalElements)
	}
}

func (a *app) pageFlags(cmd *cobra.Command) (int, int) {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	if size <= 0 {
		size = a.cfg.PageSize
	}
	if page > 0 {
		page--
	}
	return page, size
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number, starting at 1")
	cmd.Flags().Int("size", 0, "items per page")
}

func (a *app) decksCmd() *cobra.Command {
	decks := &cobra.Command{
		Use:   "decks",
		Short: "Manage your decks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, size := a.pageFlags(cmd)
			res, err := a.api.ListDecks(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			if len(res.Content) == 0 {
				cmd.Println("Колод пока нет")
				return nil
			}
			rows := lo.Map(res.Content, func(d models.Deck, _ int) []string {
				return []string{
					strconv.FormatInt(d.ID, 10),
					d.Name,
					strconv.Itoa(d.CardsCount),
					fmt.Sprintf("%d%%", d.LearnedPercent),
				}
			})
			table(cmd.OutOrStdout(), []string{"ID", "НАЗВАНИЕ", "КАРТОЧЕК", "ВЫУЧЕНО"}, rows)
			pageFooter(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addPageFlags(list)

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, _ := cmd.Flags().GetString("description")
			d, err := a.api.CreateDeck(cmd.Context(), client.DeckInput{Name: args[0], Description: desc})
			if err != nil {
				return err
			}
			cmd.Println(d.ID)
			a.notify.Success(fmt.Sprintf("Колода «%s» создана", d.Name))
			return nil
		},
	}
	create.Flags().String("description", "", "deck description")

	show := &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			d, err := a.api.GetDeck(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", d.Name)
			if d.Description != "" {
				cmd.Printf("%s\n", d.Description)
			}
			cmd.Printf("Карточек: %d, выучено: %d%%\n", d.CardsCount, d.LearnedPercent)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "edit <deck-id>",
		Short: "Change a deck's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			current, err := a.api.GetDeck(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := client.DeckInput{Name: current.Name, Description: current.Description}
			if cmd.Flags().Changed("name") {
				in.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("description") {
				in.Description, _ = cmd.Flags().GetString("description")
			}
			if _, err := a.api.UpdateDeck(cmd.Context(), id, in); err != nil {
				return err
			}
			a.notify.Success("Колода обновлена")
			return nil
		},
	}
	rename.Flags().String("name", "", "new name")
	rename.Flags().String("description", "", "new description")

	del := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			if err := a.api.DeleteDeck(cmd.Context(), id); err != nil {
				return err
			}
			a.notify.Success("Колода удалена")
			return nil
		},
	}

	decks.AddCommand(list, create, show, rename, del)
	return decks
}

func (a *app) cardsCmd() *cobra.Command {
	cards := &cobra.Command{
		Use:   "cards",
		Short: "Manage the cards of a deck",
	}

	list := &cobra.Command{
		Use:   "list <deck-id>",
		Short: "List cards in deck order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			page, size := a.pageFlags(cmd)
			res, err := a.api.ListCards(cmd.Context(), deckID, page, size)
			if err != nil {
				return err
			}
			if len(res.Content) == 0 {
				cmd.Println("В колоде нет карточек")
				return nil
			}
			rows := lo.Map(res.Content, func(c models.Card, _ int) []string {
				return []string{strconv.FormatInt(c.ID, 10), oneLine(c.Question), oneLine(c.Answer)}
			})
			table(cmd.OutOrStdout(), []string{"ID", "ВОПРОС", "ОТВЕТ"}, rows)
			pageFooter(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addPageFlags(list)

	add := &cobra.Command{
		Use:   "add <deck-id>",
		Short: "Add a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			q, err := a.flagOrPrompt(cmd, "question", "Вопрос: ")
			if err != nil {
				return err
			}
			ans, err := a.flagOrPrompt(cmd, "answer", "Ответ: ")
			if err != nil {
				return err
			}
			c, err := a.api.CreateCard(cmd.Context(), deckID, client.CardInput{Question: q, Answer: ans})
			if err != nil {
				return err
			}
			cmd.Println(c.ID)
			return nil
		},
	}
	add.Flags().String("question", "", "question side")
	add.Flags().String("answer", "", "answer side")

	edit := &cobra.Command{
		Use:   "edit <deck-id> <card-id>",
		Short: "Replace a card's question and answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			cardID, err := parseID(args[1], "card")
			if err != nil {
				return err
			}
			q, _ := cmd.Flags().GetString("question")
			ans, _ := cmd.Flags().GetString("answer")
			if _, err := a.api.UpdateCard(cmd.Context(), deckID, cardID, client.CardInput{Question: q, Answer: ans}); err != nil {
				return err
			}
			a.notify.Success("Карточка обновлена")
			return nil
		},
	}
	edit.Flags().String("question", "", "question side")
	edit.Flags().String("answer", "", "answer side")

	del := &cobra.Command{
		Use:   "delete <deck-id> <card-id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			cardID, err := parseID(args[1], "card")
			if err != nil {
				return err
			}
			if err := a.api.DeleteCard(cmd.Context(), deckID, cardID); err != nil {
				return err
			}
			a.notify.Success("Карточка удалена")
			return nil
		},
	}

	cards.AddCommand(list, add, edit, del)
	return cards
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (a *app) shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <deck-id>",
		Short: "Print a link others can import the deck from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "deck")
			if err != nil {
				return err
			}
			link, err := a.api.ShareDeck(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Println(link.URL)
			return nil
		},
	}
}

// shareToken accepts either a bare token or a full share URL.
func shareToken(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if i := strings.LastIndex(s, "/share/"); i >= 0 {
		return s[i+len("/share/"):]
	}
	return s
}

func (a *app) sharedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shared <token-or-url>",
		Short: "Preview a shared deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.api.GetSharedDeck(cmd.Context(), shareToken(args[0]))
			if err != nil {
				return err
			}
			cmd.Printf("%s (%d карточек)\n", d.Name, len(d.Cards))
			rows := lo.Map(d.Cards, func(c models.Card, i int) []string {
				return []string{strconv.Itoa(i + 1), oneLine(c.Question), oneLine(c.Answer)}
			})
			table(cmd.OutOrStdout(), []string{"#", "ВОПРОС", "ОТВЕТ"}, rows)
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <token-or-url>",
		Short: "Copy a shared deck into your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.api.ImportSharedDeck(cmd.Context(), shareToken(args[0]))
			if err != nil {
				return err
			}
			cmd.Println(d.ID)
			a.notify.Success(fmt.Sprintf("Колода «%s» добавлена", d.Name))
			return nil
		},
	}
}
