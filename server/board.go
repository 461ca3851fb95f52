package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"high-hand-board/server/engine"
	"high-hand-board/server/session"
)

// runBoard renders the floor display until ctx is cancelled. Every session
// event triggers a re-render from current state.
func runBoard(ctx context.Context, sess *session.Session) {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("High ", pterm.FgLightYellow.ToStyle()),
		putils.LettersFromStringWithStyle("Hand", pterm.FgLightRed.ToStyle()),
	).Render()

	area, err := pterm.DefaultArea.Start()
	if err != nil {
		runBoardPlain(ctx, sess)
		return
	}
	defer area.Stop()

	subID, ch := sess.Subscribe()
	defer sess.Unsubscribe(subID)

	area.Update(renderBoard(sess))
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-ch:
			if !open {
				return
			}
			area.Update(renderBoard(sess))
		}
	}
}

// runBoardPlain logs one line per event when the live area is unavailable.
func runBoardPlain(ctx context.Context, sess *session.Session) {
	subID, ch := sess.Subscribe()
	defer sess.Unsubscribe(subID)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			pterm.Info.Printfln("%s remaining=%s", ev.Type, formatClock(ev.Remaining))
		}
	}
}

func renderBoard(sess *session.Session) string {
	st := sess.State()
	stats := sess.Stats()

	status := pterm.LightGreen("RUNNING")
	if !st.Running {
		status = pterm.LightYellow("PAUSED")
	}
	box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	timerBox := box.WithTitle("|PROMO CLOCK|").WithTitleTopCenter().
		Sprintf("%s  %s", pterm.LightCyan(formatClock(st.Remaining)), status)

	bestStr := "waiting for a qualifying hand"
	if st.Best != nil {
		bestStr = pterm.Sprintfln("%s — %s", pterm.LightCyan(st.Best.Player), st.Best.Hand.Name) +
			prettyCards(st.Best.Hand.Cards)
	}
	bestBox := box.WithTitle("|CURRENT BEST|").WithTitleTopCenter().Sprintf("%s", bestStr)

	rows := pterm.TableData{{"#", "Player", "Hand", "Amount"}}
	entries := sess.Entries()
	for i := len(entries) - 1; i >= 0 && len(rows) < 9; i-- {
		e := entries[i]
		name := "-"
		if e.Hand != nil {
			name = e.Hand.Name
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.ID), e.Player, name, fmt.Sprintf("$%.2f", e.Amount),
		})
	}
	table, _ := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()

	totals := pterm.Sprintf("paid %d hands | total $%.2f | avg $%.2f",
		stats.Count, stats.Total, stats.Average)

	out, _ := pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: timerBox}, {Data: bestBox}},
		{{Data: table}},
		{{Data: pterm.Gray(totals)}},
	}).Srender()
	return out
}

func prettyCards(cards []engine.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, prettyCard(c))
	}
	return strings.Join(parts, " ")
}

func prettyCard(c engine.Card) string {
	var glyph string
	switch c.Suit {
	case 's':
		glyph = "♠"
	case 'h':
		glyph = "♥"
	case 'd':
		glyph = "♦"
	case 'c':
		glyph = "♣"
	}
	s := engine.RankName(c.Rank) + glyph
	if c.Suit == 'h' || c.Suit == 'd' {
		return pterm.LightRed(s)
	}
	return pterm.LightWhite(s)
}

func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
