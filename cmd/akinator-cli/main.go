package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/api"
	"github.com/juuwaah/kotoba-akinator/internal/app"
	"github.com/juuwaah/kotoba-akinator/internal/config"
	"github.com/juuwaah/kotoba-akinator/internal/game"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

var palette = struct {
	User, Oracle, Info, Warn, Header *color.Color
}{
	User:   color.New(color.FgCyan),
	Oracle: color.New(color.FgGreen),
	Info:   color.New(color.FgHiBlack),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Load()
	cfg.SessionStore = "memory"

	ctx := context.Background()
	mgr, st, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build game")
	}
	defer st.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	palette.Header.Println("ことばアキネーター")
	palette.Info.Println("Commands: /guess <word>, /restart, /quit. Type ヒント for a hint, 答え to give up.")

	p := &player{mgr: mgr, line: line, id: mgr.NewSessionID()}
	if err := p.run(ctx); err != nil && !errors.Is(err, errQuit) {
		palette.Warn.Println(err)
	}
}

type player struct {
	mgr   *game.Manager
	line  *liner.State
	id    string
	shown []akinator.Turn
}

func (p *player) run(ctx context.Context) error {
	for {
		if err := p.setup(ctx); err != nil {
			return err
		}
		again, err := p.play(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (p *player) setup(ctx context.Context) error {
	role, err := p.choose("Who guesses? [gpt/user] ", []string{string(akinator.RoleOracleGuesses), string(akinator.RoleUserGuesses)})
	if err != nil {
		return err
	}
	labels := lo.Map(vocab.Tiers(), func(t vocab.Tier, _ int) string { return string(t) })
	tier, err := p.choose("Level? [N5-N1] ", labels)
	if err != nil {
		return err
	}
	for {
		view, _, err := p.mgr.Do(ctx, p.id, akinator.StartGame{Role: akinator.Role(role), Tier: vocab.Tier(tier)})
		if err == nil {
			p.shown = nil
			p.render(view)
			return nil
		}
		if !p.report(err) {
			return err
		}
		if _, err := p.prompt("Press enter to retry "); err != nil {
			return err
		}
	}
}

// play runs one game. It reports whether another should follow.
func (p *player) play(ctx context.Context) (bool, error) {
	for {
		input, err := p.prompt("> ")
		if err != nil {
			return false, err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		p.line.AppendHistory(input)

		var a akinator.Action
		switch {
		case input == "/quit":
			return false, nil
		case input == "/restart":
			view, _, err := p.mgr.Do(ctx, p.id, akinator.Restart{})
			if err != nil {
				p.report(err)
				continue
			}
			p.shown = nil
			p.render(view)
			continue
		case strings.HasPrefix(input, "/guess "):
			a = akinator.SubmitDirectGuess{Candidate: strings.TrimSpace(strings.TrimPrefix(input, "/guess "))}
		default:
			a = akinator.SubmitMessage{Text: input}
		}

		view, fx, err := p.mgr.Do(ctx, p.id, a)
		if err != nil {
			p.report(err)
			continue
		}
		p.render(view)
		if fx.Ended {
			if view.RevealedSecret != nil {
				palette.Header.Printf("%s（%s）\n", view.RevealedSecret.Word, view.RevealedSecret.Meaning)
			}
			palette.Info.Printf("Game over: %s\n", fx.Reason)
			ans, err := p.prompt("Play again? [y/N] ")
			if err != nil {
				return false, err
			}
			return strings.EqualFold(strings.TrimSpace(ans), "y"), nil
		}
	}
}

// render prints every turn that is new or whose text changed since the last
// call.
func (p *player) render(view akinator.View) {
	for i, t := range view.History {
		if i < len(p.shown) && p.shown[i] == t {
			continue
		}
		c, name := palette.Oracle, "アキネーター"
		if t.Speaker == akinator.SpeakerUser {
			c, name = palette.User, "あなた"
		}
		c.Printf("%s: %s\n", name, t.Text)
	}
	p.shown = append(p.shown[:0], view.History...)
}

// report prints err and returns whether the loop can carry on.
func (p *player) report(err error) bool {
	f := api.Classify(err)
	palette.Warn.Println(f.Message)
	return akinator.IsValidation(err) || f.Retry
}

func (p *player) choose(label string, options []string) (string, error) {
	for {
		in, err := p.prompt(label)
		if err != nil {
			return "", err
		}
		in = strings.TrimSpace(in)
		for _, o := range options {
			if strings.EqualFold(in, o) {
				return o, nil
			}
		}
		palette.Warn.Printf("Choose one of: %s\n", strings.Join(options, ", "))
	}
}

func (p *player) prompt(label string) (string, error) {
	in, err := p.line.Prompt(label)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		fmt.Println()
		return "", errQuit
	}
	return in, err
}

var errQuit = errors.New("quit")
