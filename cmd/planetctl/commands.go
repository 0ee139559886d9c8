package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"planetpath/client"
	"planetpath/hooks"
	"planetpath/views"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultAPIURL = "http://localhost:3000"

// cli carries the flags shared by every subcommand.
type cli struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func (c *cli) client() *client.Client {
	return client.New(c.apiURL, client.WithToken(c.token), client.WithTimeout(c.timeout))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "planetctl",
		Short: "Browse courses and submit projects on Planet Path",
		Long: `planetctl talks to a Planet Path API server.

The server URL and token default to PLANETPATH_API_URL and PLANETPATH_TOKEN.
Run 'planetctl login' to obtain a token.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api", envOr("PLANETPATH_API_URL", defaultAPIURL), "API base URL")
	root.PersistentFlags().StringVar(&c.token, "token", os.Getenv("PLANETPATH_TOKEN"), "bearer token")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		newLoginCmd(c),
		newCoursesCmd(c),
		newCourseCmd(c),
		newEnrollCmd(c),
		newEnrolledCmd(c),
		newSubmitCmd(c),
		newSubmissionsCmd(c),
		newOverviewCmd(c),
	)
	return root
}

func newLoginCmd(c *cli) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in and print a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PLANETPATH_PASSWORD")
			}
			token, user, err := c.client().Login(cmd.Context(), args[0], password)
			if err != nil {
				return explain(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Name, user.Role)
			fmt.Fprintf(out, "export PLANETPATH_TOKEN=%s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (default $PLANETPATH_PASSWORD)")
	return cmd
}

func newCoursesCmd(c *cli) *cobra.Command {
	var params client.ListParams
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List published courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := hooks.NewCourses(c.client())
			courses, err := h.GetCourses(cmd.Context(), params)
			if err != nil {
				return explain(cmd, err)
			}
			printCourses(cmd.OutOrStdout(), courses, h.Snapshot().Pagination)
			return nil
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&params.Level, "level", "", "BEGINNER, INTERMEDIATE or ADVANCED")
	cmd.Flags().StringVar(&params.Search, "search", "", "title search")
	return cmd
}

func newCourseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "course ID",
		Short: "Show a course and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := hooks.NewCourses(c.client()).GetCourse(cmd.Context(), id)
			if err != nil {
				return explain(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s [%s]\n", detail.Course.Title, detail.Course.Level)
			if detail.Course.Description != "" {
				fmt.Fprintln(out, detail.Course.Description)
			}
			if len(detail.Course.Topics) > 0 {
				fmt.Fprintf(out, "Topics: %s\n", strings.Join(detail.Course.Topics, ", "))
			}
			if detail.IsEnrolled && detail.Enrollment != nil {
				fmt.Fprintf(out, "Enrolled: %s, %.0f%% done\n", detail.Enrollment.Status, detail.Enrollment.Progress)
			} else {
				fmt.Fprintln(out, "Not enrolled")
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ASSIGNMENT\tTITLE")
			for _, a := range detail.Assignments {
				fmt.Fprintf(w, "%d\t%s\n", a.ID, a.Title)
			}
			return w.Flush()
		},
	}
}

func newEnrollCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll ID",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			enrollment, err := hooks.NewCourses(c.client()).Enroll(cmd.Context(), id)
			if err != nil {
				return explain(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled in course %d (%d assignments)\n", id, enrollment.TotalAssignments)
			return nil
		},
	}
}

func newEnrolledCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "enrolled ID",
		Short: "Check whether you are enrolled in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			enrolled, err := hooks.NewCourses(c.client()).CheckEnrollment(cmd.Context(), id)
			if err != nil {
				return explain(cmd, err)
			}
			if enrolled {
				fmt.Fprintln(cmd.OutOrStdout(), "enrolled")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not enrolled")
			}
			return nil
		},
	}
}

func newSubmitCmd(c *cli) *cobra.Command {
	var (
		in        hooks.ProjectInput
		imagePath string
		lat, lng  float64
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a project photo for an assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				in.Image = client.Image{Name: filepath.Base(imagePath), Data: data}
			}

			latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
			if latSet != lngSet {
				return errors.New("--lat and --lng must be given together")
			}
			if latSet {
				in.Location = &hooks.Location{Latitude: lat, Longitude: lng}
			}

			sub, err := hooks.NewSubmissions(c.client()).SubmitProject(cmd.Context(), in)
			if err != nil {
				return explain(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted project %d: %s\n", sub.ID, sub.ImageURL)
			if sub.Geotag != nil {
				fmt.Fprintf(out, "Geotag: %g, %g\n", sub.Geotag.Lat, sub.Geotag.Lng)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&in.CourseID, "course", 0, "course ID")
	cmd.Flags().UintVar(&in.AssignmentID, "assignment", 0, "assignment ID")
	cmd.Flags().StringVar(&in.Description, "desc", "", "what you did")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to the project photo")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude the photo was taken at")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude the photo was taken at")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("assignment")
	return cmd
}

func newSubmissionsCmd(c *cli) *cobra.Command {
	var courseID uint
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List your submissions, optionally for one course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := hooks.NewSubmissions(c.client())
			var (
				subs []client.Submission
				err  error
			)
			if courseID > 0 {
				subs, err = h.GetSubmissionsByCourse(cmd.Context(), courseID)
			} else {
				subs, err = h.GetMySubmissions(cmd.Context())
			}
			if err != nil {
				return explain(cmd, err)
			}
			printSubmissions(cmd.OutOrStdout(), subs)
			return nil
		},
	}
	cmd.Flags().UintVar(&courseID, "course", 0, "only this course")
	return cmd
}

// newOverviewCmd loads the catalogue and the user's projects side by side.
func newOverviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show courses and your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := c.client()
			courses := hooks.NewCourses(api)
			submissions := hooks.NewSubmissions(api)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				_, err := courses.GetCourses(ctx, client.ListParams{})
				return err
			})
			g.Go(func() error {
				_, err := submissions.GetMySubmissions(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return explain(cmd, err)
			}

			out := cmd.OutOrStdout()
			cs := courses.Snapshot()
			fmt.Fprintln(out, "== Courses")
			printCourses(out, cs.Courses, cs.Pagination)
			fmt.Fprintln(out, "== Projects")
			printSubmissions(out, submissions.Snapshot().Submissions)
			return nil
		},
	}
}

func printCourses(out io.Writer, courses []client.Course, page client.Pagination) {
	if len(courses) == 0 {
		printEmpty(out, views.Empty(views.EmptyCourses))
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLEVEL")
	for _, course := range courses {
		fmt.Fprintf(w, "%d\t%s\t%s\n", course.ID, course.Title, course.Level)
	}
	_ = w.Flush()
	if page.Total > int64(len(courses)) {
		fmt.Fprintf(out, "page %d, %d of %d courses\n", page.Page, len(courses), page.Total)
	}
}

func printSubmissions(out io.Writer, subs []client.Submission) {
	if len(subs) == 0 {
		printEmpty(out, views.Empty(views.EmptyProjects))
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOURSE\tASSIGNMENT\tIMAGE\tGEOTAG")
	for _, s := range subs {
		geotag := "-"
		if s.Geotag != nil {
			geotag = fmt.Sprintf("%g,%g", s.Geotag.Lat, s.Geotag.Lng)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", s.ID, s.CourseID, s.AssignmentID, s.ImageURL, geotag)
	}
	_ = w.Flush()
}

func printEmpty(out io.Writer, state views.EmptyState) {
	fmt.Fprintf(out, "%s\n  %s\n", state.Title, state.Message)
}

// explain prints the error page matching err, then returns err so cobra
// reports the hook's message.
func explain(cmd *cobra.Command, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		page := views.ErrorPageFor(apiErr.Status)
		if apiErr.Status == 0 && apiErr.Message == client.MsgNetwork {
			page = views.Error(views.ErrorOffline)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), page.Title)
		for field, msg := range apiErr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
		}
	}
	return err
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
