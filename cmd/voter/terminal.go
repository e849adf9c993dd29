package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

var errQuit = errors.New("quit")

// terminal walks one voter through login, selection and submission over a
// line based prompt.
type terminal struct {
	in    *bufio.Scanner
	out   io.Writer
	api   ports.VoterAPI
	store ports.SessionStore
	auth  *services.AuthService
	delay time.Duration
	sleep func(time.Duration)
}

func newTerminal(in io.Reader, out io.Writer, api ports.VoterAPI, store ports.SessionStore, mode services.LoginMode, delay time.Duration) *terminal {
	return &terminal{
		in:    bufio.NewScanner(in),
		out:   out,
		api:   api,
		store: store,
		auth:  services.NewAuthService(api, store, mode),
		delay: delay,
		sleep: time.Sleep,
	}
}

func (t *terminal) run(ctx context.Context) error {
	err := t.vote(ctx)
	if errors.Is(err, errQuit) {
		fmt.Fprintln(t.out, "Bye.")
		return nil
	}
	return err
}

func (t *terminal) vote(ctx context.Context) error {
	for {
		if err := t.login(ctx); err != nil {
			return err
		}

		posts, err := t.loadBallot(ctx)
		if domain.ForcesReauth(err) || errors.Is(err, domain.ErrNoSession) {
			fmt.Fprintf(t.out, "%s\nReturning to login...\n", message(err))
			t.sleep(t.delay)
			continue
		}
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			fmt.Fprintln(t.out, "There are no active posts to vote on.")
			return nil
		}

		controller := services.NewSubmissionController(t.api, t.store, services.NewBallot(posts), t.delay)
		err = t.ballot(ctx, controller)
		if err == nil {
			return nil
		}
		if !domain.ForcesReauth(err) && !errors.Is(err, domain.ErrNoSession) {
			return err
		}

		fmt.Fprintf(t.out, "%s\nReturning to login...\n", err)
		t.sleep(controller.RedirectDelay())
	}
}

// loadBallot fetches the posts, offering a retry while the API cannot be
// reached or answers with an error the voter cannot fix by logging in again.
func (t *terminal) loadBallot(ctx context.Context) ([]domain.Post, error) {
	for {
		posts, err := services.LoadBallot(ctx, t.api)
		if err == nil || domain.ForcesReauth(err) || errors.Is(err, domain.ErrNoSession) {
			return posts, err
		}
		if domain.KindOf(err) == domain.KindInternal {
			return nil, err
		}

		fmt.Fprintln(t.out, message(err))
		answer, err := t.prompt("Retry [r] or quit [q]: ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(answer, "q") {
			return nil, errQuit
		}
	}
}

func (t *terminal) login(ctx context.Context) error {
	cred, err := t.auth.Session(ctx)
	if err != nil {
		return err
	}
	if cred != nil {
		fmt.Fprintf(t.out, "Resuming session for %s.\n", cred.MaskedPhone())
		return nil
	}

	for {
		phone, err := t.prompt("Phone number: ")
		if err != nil {
			return err
		}

		if t.auth.Mode() == services.LoginModeOTP {
			msg, err := t.auth.RequestOTP(ctx, phone)
			if err != nil {
				fmt.Fprintln(t.out, err)
				continue
			}
			fmt.Fprintln(t.out, msg)
		}

		for {
			label := "OTP: "
			if t.auth.Mode() == services.LoginModeCode {
				label = "Voting code: "
			}
			code, err := t.prompt(label)
			if err != nil {
				return err
			}

			err = t.auth.Login(ctx, phone, code)
			if err == nil {
				fmt.Fprintln(t.out, "Logged in.")
				return nil
			}
			fmt.Fprintln(t.out, err)
			// a wrong code keeps the phone and asks again
			if !errors.Is(err, domain.ErrInvalidOTP) {
				break
			}
		}
	}
}

func (t *terminal) ballot(ctx context.Context, c *services.SubmissionController) error {
	b := c.Ballot()
	for _, post := range b.Posts() {
		if err := t.choose(post, b); err != nil {
			return err
		}
	}

	for {
		t.summary(b)
		answer, err := t.prompt("Submit [s], change a post [1-" + strconv.Itoa(len(b.Posts())) + "] or quit [q]: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "q":
			return errQuit
		case "s":
			done, err := t.submit(ctx, c)
			if err != nil || done {
				return err
			}
		default:
			n, convErr := strconv.Atoi(answer)
			if convErr != nil || n < 1 || n > len(b.Posts()) {
				fmt.Fprintln(t.out, "Unknown choice.")
				continue
			}
			if err := t.choose(b.Posts()[n-1], b); err != nil {
				return err
			}
		}
	}
}

// choose asks for a candidate of post. An empty answer leaves the post as it is.
func (t *terminal) choose(post domain.Post, b *services.Ballot) error {
	fmt.Fprintf(t.out, "\n%s\n", post.Title)
	for i, c := range post.Candidates {
		line := fmt.Sprintf("  %d. %s", i+1, c.Name)
		if c.Department != "" {
			line += " (" + c.Department + ")"
		}
		fmt.Fprintln(t.out, line)
	}

	for {
		answer, err := t.prompt("Choice (enter to skip): ")
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(post.Candidates) {
			fmt.Fprintln(t.out, "Pick one of the listed numbers.")
			continue
		}
		return b.Select(post.ID, post.Candidates[n-1].ID)
	}
}

func (t *terminal) summary(b *services.Ballot) {
	fmt.Fprintln(t.out, "\nYour ballot:")
	for i, post := range b.Posts() {
		name := "(no selection)"
		if id, ok := b.Selection(post.ID); ok {
			for _, c := range post.Candidates {
				if c.ID == id {
					name = c.Name
				}
			}
		}
		fmt.Fprintf(t.out, "  %d. %s: %s\n", i+1, post.Title, name)
	}
}

// submit runs the confirmation step. It reports done once the vote is cast.
func (t *terminal) submit(ctx context.Context, c *services.SubmissionController) (bool, error) {
	err := c.RequestSubmit(ctx, false)
	if errors.Is(err, domain.ErrIncompleteBallot) {
		fmt.Fprintln(t.out, err)
		if !t.confirm("Submit anyway? [y/N]: ") {
			return false, nil
		}
		err = c.RequestSubmit(ctx, true)
	}
	if err != nil {
		return false, err
	}

	if !t.confirm("Cast your vote? This cannot be undone. [y/N]: ") {
		return false, c.Cancel()
	}

	fmt.Fprintln(t.out, "Submitting...")
	res, err := c.Confirm(ctx)
	if err != nil {
		if c.State() == services.StateFailed {
			return false, err
		}
		fmt.Fprintf(t.out, "%s\nYour selections are kept, you can submit again.\n", err)
		return false, nil
	}

	fmt.Fprintf(t.out, "%s (%d votes cast)\n", res.Message, res.VotesCast)
	for _, fv := range res.FailedVotes {
		fmt.Fprintf(t.out, "  Post %d not recorded: %s\n", fv.PostID, fv.Error)
	}
	return true, nil
}

// message is the user-facing text of err, without the wrapping context.
func message(err error) string {
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func (t *terminal) confirm(label string) bool {
	answer, err := t.prompt(label)
	return err == nil && strings.EqualFold(answer, "y")
}

func (t *terminal) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(t.in.Text()), nil
}
