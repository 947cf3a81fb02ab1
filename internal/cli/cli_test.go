package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/paes/ensayos/internal/cli"
	"github.com/paes/ensayos/internal/client"
	"github.com/paes/ensayos/internal/config"
	"github.com/paes/ensayos/internal/routes"
)

type seen struct {
	method string
	path   string
	auth   string
	body   string
}

type api struct {
	mu    sync.Mutex
	calls []seen
	srv   *httptest.Server
}

func newAPI(t *testing.T) *api {
	a := &api{}
	a.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		a.calls = append(a.calls, seen{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(body)})
		a.mu.Unlock()

		switch r.URL.Path {
		case "/exams/":
			w.WriteHeader(http.StatusNotFound)
		case "/ensayos/":
			_, _ = w.Write([]byte(`[{"id":1,"titulo":"Matemáticas"}]`))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *api) last() seen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[len(a.calls)-1]
}

func (a *api) snapshot() []seen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]seen(nil), a.calls...)
}

// isolate unsets every ENSAYOS_* variable for the test and returns a fresh token file path.
func isolate(t *testing.T) string {
	t.Setenv(config.EnvConfigFile, "")
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix) {
			key, value, _ := strings.Cut(kv, "=")
			t.Setenv(key, value)
			_ = os.Unsetenv(key)
		}
	}
	return filepath.Join(t.TempDir(), "token.env")
}

func run(stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	app := cli.New(&out, &errOut, strings.NewReader(stdin))
	err := app.Run(context.Background(), append([]string{"ensayos"}, args...))
	return out.String(), errOut.String(), err
}

func TestReadCommands(t *testing.T) {
	Convey("Given a stub API and no stored token", t, func() {
		a := newAPI(t)
		tokenFile := isolate(t)
		base := []string{"--api", a.srv.URL, "--token-file", tokenFile}

		Convey("When listing ensayos", func() {
			out, errOut, err := run("", append(base, "list")...)

			Convey("Then the legacy response is printed as indented JSON", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "\"titulo\": \"Matemáticas\"")
				calls := a.snapshot()
				So(calls, ShouldHaveLength, 2)
				So(calls[0].path, ShouldEqual, "/exams/")
				So(calls[1].path, ShouldEqual, "/ensayos/")
				So(calls[1].auth, ShouldBeEmpty)
				So(errOut, ShouldContainSubstring, "trying legacy path")
			})
		})

		Convey("When running the id based reads", func() {
			cases := []struct {
				args []string
				path string
			}{
				{[]string{"get", "4"}, "/exams/4/"},
				{[]string{"summary", "4"}, "/ensayos/4/results/summary/"},
				{[]string{"breakdown", "4", "9"}, "/ensayos/4/questions/9/breakdown/"},
				{[]string{"completed"}, "/ensayos/completados/"},
				{[]string{"review", "4", "2"}, "/ensayos/4/results/2/review/"},
			}

			Convey("Then each hits its path", func() {
				for _, c := range cases {
					_, _, err := run("", append(base, c.args...)...)
					So(err, ShouldBeNil)
					So(a.last().path, ShouldEqual, c.path)
					So(a.last().method, ShouldEqual, http.MethodGet)
				}
			})
		})

		Convey("When an id is not an integer", func() {
			_, _, err := run("", append(base, "get", "abc")...)

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
				So(a.snapshot(), ShouldBeEmpty)
			})
		})

		Convey("When an id is missing", func() {
			_, _, err := run("", append(base, "breakdown", "4")...)
			So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
		})
	})
}

func TestSubmitCommand(t *testing.T) {
	Convey("Given a stub API and a stored token", t, func() {
		a := newAPI(t)
		tokenFile := isolate(t)
		base := []string{"--api", a.srv.URL, "--token-file", tokenFile}

		_, _, err := run("", append(base, "login", "abc123")...)
		So(err, ShouldBeNil)

		Convey("When submitting a bare array from stdin", func() {
			_, _, err := run(`[{"q":1,"a":"A"}]`, append(base, "submit", "42")...)

			Convey("Then it is sent unwrapped with the token", func() {
				So(err, ShouldBeNil)
				got := a.last()
				So(got.method, ShouldEqual, http.MethodPost)
				So(got.path, ShouldEqual, "/ensayos/42/submit/")
				So(got.auth, ShouldEqual, "Token abc123")
				So(got.body, ShouldEqual, `[{"a":"A","q":1}]`)
			})
		})

		Convey("When submitting a wrapped object from stdin", func() {
			_, _, err := run(`{"respuestas":[{"q":1,"a":"A"}]}`, append(base, "submit", "42")...)

			Convey("Then it is sent wrapped", func() {
				So(err, ShouldBeNil)
				So(a.last().body, ShouldEqual, `{"respuestas":[{"a":"A","q":1}]}`)
			})
		})

		Convey("When submitting a bare array with --wrapped", func() {
			_, _, err := run(`[{"q":1,"a":"A"}]`, append(base, "submit", "--wrapped", "42")...)

			Convey("Then it is wrapped", func() {
				So(err, ShouldBeNil)
				So(a.last().body, ShouldEqual, `{"respuestas":[{"a":"A","q":1}]}`)
			})
		})

		Convey("When both --bare and --wrapped are given", func() {
			_, _, err := run(`[]`, append(base, "submit", "--bare", "--wrapped", "42")...)

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
				So(a.snapshot(), ShouldBeEmpty)
			})
		})

		Convey("When submitting with --bare from a file", func() {
			path := filepath.Join(t.TempDir(), "answers.json")
			So(os.WriteFile(path, []byte(`{"respuestas":[{"q":2,"a":"B"}]}`), 0o600), ShouldBeNil)
			_, _, err := run("", append(base, "submit", "--bare", "--file", path, "7")...)

			Convey("Then the bare array is sent", func() {
				So(err, ShouldBeNil)
				So(a.last().body, ShouldEqual, `[{"a":"B","q":2}]`)
			})
		})

		Convey("When the payload is not JSON", func() {
			_, _, err := run("nope", append(base, "submit", "1")...)

			Convey("Then it fails before any request", func() {
				So(errors.Is(err, client.ErrInvalidPayload), ShouldBeTrue)
				So(a.snapshot(), ShouldBeEmpty)
			})
		})

		Convey("When logging out", func() {
			out, _, err := run("", append(base, "logout")...)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "token removed")

			Convey("Then later requests are anonymous", func() {
				_, _, err := run("", append(base, "completed")...)
				So(err, ShouldBeNil)
				So(a.last().auth, ShouldBeEmpty)
			})
		})
	})
}

func TestExplainCommand(t *testing.T) {
	Convey("Given a stub API", t, func() {
		a := newAPI(t)
		tokenFile := isolate(t)
		base := []string{"--api", a.srv.URL, "--token-file", tokenFile}

		Convey("When only --texto is given", func() {
			_, _, err := run("", append(base, "explain", "--texto", "only-text", "7")...)

			Convey("Then url is omitted", func() {
				So(err, ShouldBeNil)
				So(a.last().method, ShouldEqual, http.MethodPatch)
				So(a.last().path, ShouldEqual, "/preguntas/7/explicacion/")
				So(a.last().body, ShouldEqual, `{"texto":"only-text"}`)
			})
		})

		Convey("When legacy fields arrive on stdin", func() {
			_, _, err := run(`{"explicacion_texto":"x","explicacion_url":"y"}`, append(base, "explain", "--file", "-", "7")...)

			Convey("Then they are normalized", func() {
				So(err, ShouldBeNil)
				So(a.last().body, ShouldEqual, `{"texto":"x","url":"y"}`)
			})
		})

		Convey("When nothing to edit is given", func() {
			_, _, err := run("", append(base, "explain", "7")...)
			So(errors.Is(err, cli.ErrUsage), ShouldBeTrue)
		})
	})
}

func TestFailures(t *testing.T) {
	Convey("Given an API that rejects everything", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		tokenFile := isolate(t)

		Convey("When a command runs", func() {
			_, _, err := run("", "--api", srv.URL, "--token-file", tokenFile, "list")

			Convey("Then the request failure is returned", func() {
				So(errors.Is(err, client.ErrRequestFailed), ShouldBeTrue)
			})
		})

		Convey("When the api flag is not a URL", func() {
			_, _, err := run("", "--api", "not a url", "--token-file", tokenFile, "list")
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestRouteCommands(t *testing.T) {
	Convey("Given the route commands", t, func() {
		isolate(t)

		Convey("When resolving /ensayos/math", func() {
			out, _, err := run("", "resolve", "/ensayos/math")

			Convey("Then the page and props are printed", func() {
				So(err, ShouldBeNil)
				var got map[string]any
				So(json.Unmarshal([]byte(out), &got), ShouldBeNil)
				So(got["page"], ShouldEqual, "ListaEnsayos")
				So(got["props"], ShouldResemble, map[string]any{"materia": "math"})
			})
		})

		Convey("When resolving an unknown path", func() {
			_, _, err := run("", "resolve", "/nope/nope")
			So(errors.Is(err, routes.ErrNoRoute), ShouldBeTrue)
		})

		Convey("When listing routes", func() {
			out, _, err := run("", "routes")

			Convey("Then the table is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "PATTERN")
				So(out, ShouldContainSubstring, "/ensayos/{materia}")
				So(out, ShouldContainSubstring, "{materia<-materia}")
				So(strings.Count(out, "\n"), ShouldEqual, 18)
			})
		})
	})
}

func TestConfigFlag(t *testing.T) {
	Convey("Given a config file naming the API", t, func() {
		a := newAPI(t)
		tokenFile := isolate(t)
		path := filepath.Join(t.TempDir(), "ensayos.yaml")
		So(os.WriteFile(path, []byte("api_base: "+a.srv.URL+"\ntoken_file: "+tokenFile+"\n"), 0o600), ShouldBeNil)

		Convey("When running with --config", func() {
			_, _, err := run("", "--config", path, "completed")

			Convey("Then the configured API is used", func() {
				So(err, ShouldBeNil)
				So(a.last().path, ShouldEqual, "/ensayos/completados/")
			})

			Convey("Then the process environment is left alone", func() {
				_, set := os.LookupEnv(config.EnvConfigFile)
				So(set, ShouldBeFalse)
			})
		})

		Convey("When the file is named by ENSAYOS_CONFIG", func() {
			t.Setenv(config.EnvConfigFile, path)
			_, _, err := run("", "completed")

			Convey("Then the flag picks it up", func() {
				So(err, ShouldBeNil)
				So(a.last().path, ShouldEqual, "/ensayos/completados/")
			})
		})
	})
}
