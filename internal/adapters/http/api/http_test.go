package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/okian/pitcrew/internal/adapters/http/api"
	service "github.com/okian/pitcrew/internal/app"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/internal/domain/types"
	"github.com/okian/pitcrew/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newHandler(opts ...service.Option) (http.Handler, *service.Service) {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return api.NewServer(svc).Router(), svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func errorCode(w *httptest.ResponseRecorder) string {
	return decodeBody[map[string]string](w)["code"]
}

func TestRoleAndSettings(t *testing.T) {
	Convey("Given the API", t, func() {
		h, svc := newHandler()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("When reading and toggling the role", func() {
			first := do(h, http.MethodGet, "/role", "")
			toggled := do(h, http.MethodPost, "/role/toggle", "")

			Convey("Then the role flips from spotter to driver", func() {
				So(first.Code, ShouldEqual, http.StatusOK)
				So(decodeBody[map[string]string](first)["role"], ShouldEqual, "spotter")
				So(decodeBody[map[string]string](toggled)["role"], ShouldEqual, "driver")
			})
		})

		Convey("When patching settings", func() {
			w := do(h, http.MethodPatch, "/settings", `{"vibration": false}`)

			Convey("Then only the named toggle changes", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decodeBody[model.Settings](w)
				So(got.Vibration, ShouldBeFalse)
				So(got.Sound, ShouldBeTrue)
			})
		})

		Convey("When the body has unknown fields", func() {
			w := do(h, http.MethodPatch, "/settings", `{"volume": 3}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			})
		})
	})
}

func TestContacts(t *testing.T) {
	Convey("Given the API", t, func() {
		h, svc := newHandler(service.WithAvatarPool([]string{"https://img.example/a.png"}))
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("When listing with no contacts", func() {
			w := do(h, http.MethodGet, "/contacts", "")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When adding a contact", func() {
			w := do(h, http.MethodPost, "/contacts", `{"name":"Jamie","role":"driver"}`)
			c := decodeBody[model.Contact](w)

			Convey("Then it is created with an avatar and can be searched and removed", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(c.Avatar, ShouldEqual, "https://img.example/a.png")

				found := decodeBody[[]model.Contact](do(h, http.MethodGet, "/contacts?q=jam", ""))
				So(found, ShouldHaveLength, 1)

				So(do(h, http.MethodDelete, "/contacts/"+c.ID, "").Code, ShouldEqual, http.StatusNoContent)
				So(decodeBody[[]model.Contact](do(h, http.MethodGet, "/contacts", "")), ShouldBeEmpty)
			})
		})

		Convey("When adding a contact with a blank name", func() {
			w := do(h, http.MethodPost, "/contacts", `{"name":"   "}`)

			Convey("Then it is a bad request and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeBody[[]model.Contact](do(h, http.MethodGet, "/contacts", "")), ShouldBeEmpty)
			})
		})
	})
}

func TestTeams(t *testing.T) {
	Convey("Given the API with one team", t, func() {
		h, svc := newHandler()
		defer func() { _ = svc.Stop(context.Background()) }()

		w := do(h, http.MethodPost, "/teams", `{"name":"Red","type":"pro","role":"driver","creator_id":"me"}`)
		So(w.Code, ShouldEqual, http.StatusCreated)
		team := decodeBody[model.Team](w)

		Convey("Then it can be fetched with the creator as member", func() {
			got := decodeBody[model.Team](do(h, http.MethodGet, "/teams/"+team.ID, ""))
			So(got.Name, ShouldEqual, "Red")
			So(got.MemberCount, ShouldEqual, 1)

			members := decodeBody[[]model.TeamMember](do(h, http.MethodGet, "/teams/"+team.ID+"/members", ""))
			So(members, ShouldHaveLength, 1)
			So(members[0].UserID, ShouldEqual, "me")
		})

		Convey("When it becomes active and gains a member", func() {
			So(do(h, http.MethodPut, "/teams/active", `{"team_id":"`+team.ID+`"}`).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodPost, "/teams/"+team.ID+"/members", `{"user_id":"u2"}`).Code, ShouldEqual, http.StatusCreated)

			Convey("Then the active team shows the new count", func() {
				active := decodeBody[map[string]*model.Team](do(h, http.MethodGet, "/teams/active", ""))
				So(active["team"], ShouldNotBeNil)
				So(active["team"].MemberCount, ShouldEqual, 2)
			})

			Convey("Then removing the member restores the count", func() {
				So(do(h, http.MethodDelete, "/teams/"+team.ID+"/members/u2", "").Code, ShouldEqual, http.StatusNoContent)
				active := decodeBody[map[string]*model.Team](do(h, http.MethodGet, "/teams/active", ""))
				So(active["team"].MemberCount, ShouldEqual, 1)
			})

			Convey("Then deleting the team clears the selection", func() {
				So(do(h, http.MethodDelete, "/teams/"+team.ID, "").Code, ShouldEqual, http.StatusNoContent)
				active := decodeBody[map[string]*model.Team](do(h, http.MethodGet, "/teams/active", ""))
				So(active["team"], ShouldBeNil)
				So(do(h, http.MethodGet, "/teams/"+team.ID, "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When addressing unknown teams", func() {
			Convey("Then lookups are 404", func() {
				So(do(h, http.MethodGet, "/teams/nope", "").Code, ShouldEqual, http.StatusNotFound)
				So(do(h, http.MethodGet, "/teams/nope/members", "").Code, ShouldEqual, http.StatusNotFound)
				So(do(h, http.MethodPost, "/teams/nope/members", `{"user_id":"u"}`).Code, ShouldEqual, http.StatusNotFound)
				So(do(h, http.MethodPut, "/teams/active", `{"team_id":"nope"}`).Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When creating invalid teams", func() {
			Convey("Then they are bad requests", func() {
				So(do(h, http.MethodPost, "/teams", `{"name":"","creator_id":"me"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPost, "/teams", `{"name":"X"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPost, "/teams", `{"name":"X","type":"club","creator_id":"me"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPost, "/teams/"+team.ID+"/members", `{"user_id":""}`).Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestMessagesAndCallouts(t *testing.T) {
	Convey("Given the API with one team", t, func() {
		h, svc := newHandler()
		defer func() { _ = svc.Stop(context.Background()) }()
		team := decodeBody[model.Team](do(h, http.MethodPost, "/teams", `{"name":"Red","creator_id":"me"}`))
		path := "/teams/" + team.ID

		Convey("When posting a message twice with one client id", func() {
			first := do(h, http.MethodPost, path+"/messages", `{"text":"go","sender":"driver","client_id":"c1"}`)
			second := do(h, http.MethodPost, path+"/messages", `{"text":"go","sender":"driver","client_id":"c1"}`)

			Convey("Then it is accepted once and acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(decodeBody[types.Ack](second).Duplicate, ShouldBeTrue)
				So(decodeBody[[]model.Message](do(h, http.MethodGet, path+"/messages", "")), ShouldHaveLength, 1)
			})
		})

		Convey("When a spotter sends a call", func() {
			w := do(h, http.MethodPost, path+"/callouts", `{"sender":"spotter","call":{"angle":1,"line":2,"proximity":3,"give_me_a":4}}`)

			Convey("Then the composed text is stored", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				msgs := decodeBody[[]model.Message](do(h, http.MethodGet, path+"/messages", ""))
				So(msgs, ShouldHaveLength, 1)
				So(msgs[0].Text, ShouldEqual, "Angle: 1\nLine: 2\nProximity: 3\nGive me a: 4")
			})
		})

		Convey("When a callout is invalid", func() {
			w := do(h, http.MethodPost, path+"/callouts", `{"sender":"spotter","zero_run":"flat tyre"}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing quick messages", func() {
			w := do(h, http.MethodGet, "/callouts/quick", "")

			Convey("Then the eight driver texts are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody[[]map[string]string](w), ShouldHaveLength, 8)
			})
		})

		Convey("When posting to an unknown team or with empty text", func() {
			Convey("Then the errors are mapped", func() {
				So(do(h, http.MethodPost, "/teams/nope/messages", `{"text":"go","sender":"driver"}`).Code, ShouldEqual, http.StatusNotFound)
				So(do(h, http.MethodPost, path+"/messages", `{"text":"","sender":"driver"}`).Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestBattles(t *testing.T) {
	Convey("Given the API with the sample battles and strict winners", t, func() {
		h, svc := newHandler(service.WithSeedBattles(true), service.WithStrictWinner(true))
		defer func() { _ = svc.Stop(context.Background()) }()
		view := decodeBody[[]types.BattleEntry](do(h, http.MethodGet, "/battles", ""))
		So(view, ShouldHaveLength, 2)

		Convey("Then the round view puts the active Top 32 battle first", func() {
			So(view[0].Round, ShouldEqual, model.RoundTop32)
			So(view[0].Driver, ShouldEqual, "Alex Smith")
			So(view[0].Status, ShouldEqual, model.StatusActive)
		})

		Convey("When winning an upcoming battle", func() {
			w := do(h, http.MethodPost, "/battles/"+view[1].ID+"/winner", `{"winner":"driver"}`)

			Convey("Then it conflicts", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When winning the active battle", func() {
			w := do(h, http.MethodPost, "/battles/"+view[0].ID+"/winner", `{"winner":"spotter"}`)

			Convey("Then the next battle becomes active", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				next := decodeBody[[]types.BattleEntry](do(h, http.MethodGet, "/battles", ""))
				So(next[0].Status, ShouldEqual, model.StatusCompleted)
				So(next[1].Status, ShouldEqual, model.StatusActive)
			})
		})

		Convey("When adding, reordering and deleting", func() {
			w := do(h, http.MethodPost, "/battles", `{"driver":"Kai","spotter":"Lee","round":"final"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			added := decodeBody[model.Battle](w)

			editing := decodeBody[[]types.BattleEntry](do(h, http.MethodGet, "/battles?editing=true", ""))
			ids := `["` + added.ID + `","` + editing[0].ID + `","` + editing[1].ID + `"]`
			reordered := do(h, http.MethodPut, "/battles/order", `{"ids":`+ids+`}`)

			Convey("Then the manual order follows the request", func() {
				So(reordered.Code, ShouldEqual, http.StatusOK)
				got := decodeBody[[]types.BattleEntry](reordered)
				So(got[0].ID, ShouldEqual, added.ID)
				So(got[0].Order, ShouldEqual, 0)
			})

			Convey("Then deleting removes it", func() {
				So(do(h, http.MethodDelete, "/battles/"+added.ID, "").Code, ShouldEqual, http.StatusNoContent)
				So(decodeBody[[]types.BattleEntry](do(h, http.MethodGet, "/battles", "")), ShouldHaveLength, 2)
			})
		})

		Convey("When requests are malformed", func() {
			Convey("Then they are rejected", func() {
				So(do(h, http.MethodPost, "/battles", `{"driver":"A","spotter":"B","round":"Top 8"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPost, "/battles", `{"driver":"","spotter":"B","round":"Final"}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPut, "/battles/order", `{"ids":["`+view[0].ID+`"]}`).Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodGet, "/battles?editing=maybe", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodPost, "/battles/nope/favorite", "").Code, ShouldEqual, http.StatusNotFound)
				So(do(h, http.MethodPost, "/battles/"+view[0].ID+"/winner", `{"winner":"crowd"}`).Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestObservability(t *testing.T) {
	Convey("Given the API", t, func() {
		h, svc := newHandler()
		defer func() { _ = svc.Stop(context.Background()) }()
		do(h, http.MethodGet, "/role", "")

		Convey("Then /healthz exposes the request metrics", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "pitcrew_service_http_requests_total")
		})

		Convey("Then /stats reports the service state", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then extra routes can be mounted", func() {
			r := api.NewServer(svc, api.WithMount(func(r chi.Router) {
				r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
			})).Router()
			So(do(r, http.MethodGet, "/extra", "").Code, ShouldEqual, http.StatusTeapot)
		})
	})
}

func TestStream(t *testing.T) {
	Convey("Given a running server with one team", t, func() {
		h, svc := newHandler()
		defer func() { _ = svc.Stop(context.Background()) }()
		srv := httptest.NewServer(h)
		defer srv.Close()
		team := decodeBody[model.Team](do(h, http.MethodPost, "/teams", `{"name":"Red","creator_id":"me"}`))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/teams/" + team.ID + "/stream"

		Convey("When a client subscribes and a message is posted", func() {
			conn, _, err := websocket.Dial(ctx, url, nil)
			So(err, ShouldBeNil)
			defer conn.CloseNow()
			for svc.Hub().Subscribers(ctx) < 1 {
				time.Sleep(5 * time.Millisecond)
			}

			So(do(h, http.MethodPost, "/teams/"+team.ID+"/messages", `{"text":"box","sender":"spotter"}`).Code, ShouldEqual, http.StatusAccepted)

			Convey("Then the client receives it", func() {
				var m model.Message
				So(wsjson.Read(ctx, conn, &m), ShouldBeNil)
				So(m.Text, ShouldEqual, "box")
				So(m.TeamID, ShouldEqual, team.ID)
			})
		})

		Convey("When subscribing to an unknown team", func() {
			_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/teams/nope/stream", nil)

			Convey("Then the upgrade is refused", func() {
				So(err, ShouldNotBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStreamUnavailable(t *testing.T) {
	Convey("Given a server whose service was never started", t, func() {
		h := api.NewServer(service.New()).Router()
		team := decodeBody[model.Team](do(h, http.MethodPost, "/teams", `{"name":"Red","creator_id":"me"}`))

		Convey("When a client asks for the stream", func() {
			w := do(h, http.MethodGet, "/teams/"+team.ID+"/stream", "")

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(errorCode(w), ShouldEqual, "unavailable")
			})
		})
	})
}
