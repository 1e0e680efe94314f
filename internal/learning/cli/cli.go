// Package cli is the interactive learner front end: account commands, course
// creation and a study loop that drives the progress tracker and quiz engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/client"
	"github.com/yungbote/smarttutor-backend/internal/learning/progress"
	"github.com/yungbote/smarttutor-backend/internal/learning/session"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const usage = `usage: learner [flags] <command> [args]

commands:
  signup EMAIL NAME PASSWORD
  login EMAIL PASSWORD
  oauth SESSION_ID
  logout
  me
  theme [light|dark|toggle]
  create [-lang L] [-mode Quick|Detailed|Mixed] TOPIC...
  courses
  dashboard
  study COURSE        course number from "courses" or its id`

type runner struct {
	p      printer
	in     *bufio.Scanner
	sess   *session.Session
	client *client.Client
	log    *logger.Logger
	delay  time.Duration
}

// Run executes one learner command and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log *logger.Logger) int {
	fs := flag.NewFlagSet("learner", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", "", "session file (default: user config dir)")
	baseURL := fs.String("base-url", "", "API base url, saved for later runs")
	timeout := fs.Duration("timeout", 2*time.Minute, "HTTP request timeout")
	clearDelay := fs.Duration("quiz-clear-delay", progress.DefaultClearDelay, "how long a finished quiz stays on screen")
	fs.Usage = func() { fmt.Fprintln(stdout, usage); fs.PrintDefaults() }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			fmt.Fprintf(stdout, "config path: %v\n", err)
			return 1
		}
		path = p
	}
	sess, err := session.Open(path)
	if err != nil {
		fmt.Fprintf(stdout, "%v\n", err)
		return 1
	}
	if *baseURL != "" {
		if err := sess.SetBaseURL(*baseURL); err != nil {
			fmt.Fprintf(stdout, "save base url: %v\n", err)
			return 1
		}
	}
	c, err := client.New(client.Config{BaseURL: sess.BaseURL(), Timeout: *timeout, Token: sess.Token()}, log)
	if err != nil {
		fmt.Fprintf(stdout, "%v\n", err)
		return 1
	}

	r := &runner{
		p:      newPrinter(stdout, sess.Theme()),
		in:     bufio.NewScanner(stdin),
		sess:   sess,
		client: c,
		log:    log,
		delay:  *clearDelay,
	}
	if err := r.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		r.p.line("error: %v", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("wrong arguments, run without a command for help")

func (r *runner) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		if len(args) != 3 {
			return errUsage
		}
		s, err := r.client.Signup(ctx, api.SignupRequest{Email: args[0], Name: args[1], Password: args[2]})
		return r.signedIn(s, err)
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		s, err := r.client.Login(ctx, args[0], args[1])
		return r.signedIn(s, err)
	case "oauth":
		if len(args) != 1 {
			return errUsage
		}
		s, err := r.client.ExchangeSession(ctx, args[0])
		return r.signedIn(s, err)
	case "logout":
		if err := r.client.Logout(ctx); err != nil {
			r.log.Warn("Server logout failed", "error", err)
		}
		r.p.line("Logged out.")
		return r.sess.SignOut()
	case "me":
		me, err := r.client.Me(ctx)
		if err != nil {
			return err
		}
		r.p.heading("%s <%s>", me.Name, me.Email)
		r.p.line("courses: %d  streak: %d", len(me.CoursesEnrolled), me.StreakCount)
		return nil
	case "theme":
		return r.theme(args)
	case "create":
		return r.create(ctx, args)
	case "courses":
		courses, err := r.client.MyCourses(ctx)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			r.p.line("No courses yet. Create one with: learner create TOPIC")
		}
		for i, c := range courses {
			r.p.line("%d. %s (%s, %s) %d lessons  %s", i+1, c.Topic, c.Language, c.Mode, len(c.Lessons), c.ID)
		}
		return nil
	case "dashboard":
		d, err := r.client.Dashboard(ctx)
		if err != nil {
			return err
		}
		r.p.heading("Welcome back, %s", d.User.Name)
		r.p.line("courses: %d  lessons completed: %d  average quiz: %.1f%%  streak: %d",
			d.Stats.TotalCourses, d.Stats.LessonsCompleted, d.Stats.AverageQuizScore, d.Stats.StreakCount)
		for _, c := range d.RecentCourses {
			r.p.line("  %s (%s)", c.Topic, c.CreatedAt.Format("2006-01-02"))
		}
		return nil
	case "study":
		if len(args) != 1 {
			return errUsage
		}
		return r.study(ctx, args[0])
	default:
		r.p.line("%s", usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *runner) signedIn(s *api.Session, err error) error {
	if err != nil {
		return err
	}
	if err := r.sess.SignIn(*s); err != nil {
		return err
	}
	r.p.line("Signed in as %s.", s.Email)
	return nil
}

func (r *runner) theme(args []string) error {
	if len(args) == 0 {
		r.p.line("%s", r.sess.Theme())
		return nil
	}
	if args[0] == "toggle" {
		t, err := r.sess.ToggleTheme()
		if err == nil {
			r.p.line("theme: %s", t)
		}
		return err
	}
	t, err := session.ParseTheme(args[0])
	if err != nil {
		return err
	}
	return r.sess.SetTheme(t)
}

func (r *runner) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(r.p.out)
	lang := fs.String("lang", "English", "course language")
	mode := fs.String("mode", api.ModeMixed, "Quick, Detailed or Mixed")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	r.p.line("Generating course...")
	course, err := r.client.CreateCourse(ctx, api.CreateCourseRequest{
		Topic:    strings.Join(fs.Args(), " "),
		Language: *lang,
		Mode:     *mode,
	})
	if err != nil {
		return err
	}
	r.p.heading("%s: %d lessons, %d videos", course.Topic, len(course.Lessons), len(course.Videos))
	r.p.line("id: %s", course.ID)
	return nil
}

func (r *runner) study(ctx context.Context, ref string) error {
	courses, err := r.client.MyCourses(ctx)
	if err != nil {
		return err
	}
	course, ok := findCourse(courses, ref)
	if !ok {
		return fmt.Errorf("no course %q", ref)
	}
	stored, err := r.client.CourseProgress(ctx, course.ID)
	if err != nil {
		r.p.line("could not load saved progress: %v", err)
		stored = nil
	}

	opts := append(restoredRecord(stored),
		progress.WithClearDelay(r.delay),
		progress.WithNotifier(printNotifier{p: r.p}),
	)
	tracker := progress.NewTracker(r.log, course, r.client, opts...)
	loop := &studyLoop{p: r.p, in: r.in, tracker: tracker, course: course}
	err = loop.run(ctx)
	tracker.Wait()
	return err
}
