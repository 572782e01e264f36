package session

import (
	"context"
	"strings"
	"testing"

	"sitesafety/internal/application/guard"
	"sitesafety/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genRole() gopter.Gen {
	return gen.OneConstOf(auth.RoleAdmin, auth.RoleUser, auth.RoleWorker)
}

func genName() gopter.Gen {
	return gen.AlphaString()
}

// genMalformed produces strings that do not have three segments
func genMalformed() gopter.Gen {
	return gen.AnyString().Map(func(s string) string {
		if strings.Count(s, ".") == 2 {
			return strings.Replace(s, ".", "", 1)
		}
		return s
	})
}

func TestStoreProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("login with a live token succeeds and exposes its role",
		prop.ForAll(
			func(role auth.Role, name string, ttl int64) bool {
				store, _ := newTestStore(&mockSlot{})
				store.Initialize(context.Background())
				token := mintToken(t, jwt.MapClaims{"name": name, "role": string(role), "exp": fixedNow.Unix() + ttl})

				decoded, err := store.codec.Decode(token)
				if err != nil {
					return false
				}
				if !store.Login(context.Background(), token) {
					return false
				}
				return store.Identity().Role == decoded.Role
			},
			genRole(),
			genName(),
			gen.Int64Range(1, 10*365*24*3600),
		))

	properties.Property("login with an expired token fails and keeps the prior session",
		prop.ForAll(
			func(role auth.Role, age int64) bool {
				slot := &mockSlot{}
				store, holder := newTestStore(slot)
				store.Initialize(context.Background())
				prior := liveToken(t, "User")
				store.Login(context.Background(), prior)

				expired := mintToken(t, jwt.MapClaims{"role": string(role), "exp": fixedNow.Unix() - age})
				if store.Login(context.Background(), expired) {
					return false
				}
				stored, _ := slot.stored()
				return store.token() == prior && stored == prior && holder.current() == prior
			},
			genRole(),
			gen.Int64Range(0, 10*365*24*3600),
		))

	properties.Property("malformed strings never decode",
		prop.ForAll(
			func(s string) bool {
				codec := NewCodec(fixedClock)
				identity, err := codec.Decode(s)
				return err != nil && identity == nil && !codec.IsLive(identity)
			},
			genMalformed(),
		))

	properties.Property("logout twice equals logout once",
		prop.ForAll(
			func(loggedIn bool) bool {
				slot := &mockSlot{}
				store, holder := newTestStore(slot)
				store.Initialize(context.Background())
				if loggedIn {
					store.Login(context.Background(), liveToken(t, "Worker"))
				}
				store.Logout(context.Background())
				once := store.Snapshot()
				store.Logout(context.Background())
				twice := store.Snapshot()
				_, present := slot.stored()
				return once.Identity == nil && twice.Identity == nil &&
					once.Initializing == twice.Initializing && !present && holder.current() == ""
			},
			gen.Bool(),
		))

	properties.Property("initialize restores exactly what the persisted token decodes to",
		prop.ForAll(
			func(role auth.Role, name string, offset int64) bool {
				token := mintToken(t, jwt.MapClaims{"name": name, "role": string(role), "exp": fixedNow.Unix() + offset})
				slot := &mockSlot{token: token, present: true}
				store, _ := newTestStore(slot)
				store.Initialize(context.Background())

				_, present := slot.stored()
				if offset <= 0 {
					return store.Identity() == nil && !present
				}
				decoded, _ := store.codec.Decode(token)
				identity := store.Identity()
				return identity != nil && *identity == *decoded && present
			},
			genRole(),
			genName(),
			gen.Int64Range(-3600, 3600),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAdminScenario(t *testing.T) {
	policy := auth.DefaultPolicy()
	admin := policy.RequiredRoles(auth.GroupAdmin)

	store, _ := newTestStore(&mockSlot{})
	store.Initialize(context.Background())
	live := mintToken(t, jwt.MapClaims{"name": "Alice", "role": "Admin", "exp": fixedNow.Unix() + 3600})
	if !store.Login(context.Background(), live) {
		t.Fatalf("Expected live admin token to log in")
	}
	if d := guard.Decide(store.Snapshot(), admin, "/admin/dashboard"); d.Outcome != guard.Allow {
		t.Errorf("Expected Allow, got %s", d.Outcome)
	}

	fresh, _ := newTestStore(&mockSlot{})
	fresh.Initialize(context.Background())
	before := guard.Decide(fresh.Snapshot(), admin, "/admin/dashboard")
	expired := mintToken(t, jwt.MapClaims{"name": "Alice", "role": "Admin", "exp": fixedNow.Unix() - 1})
	if fresh.Login(context.Background(), expired) {
		t.Fatalf("Expected expired admin token to be rejected")
	}
	after := guard.Decide(fresh.Snapshot(), admin, "/admin/dashboard")
	if before != after {
		t.Errorf("Expected decision to be unchanged, got %+v then %+v", before, after)
	}
}
