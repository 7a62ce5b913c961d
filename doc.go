// Package gridbase is the Go client SDK for the Gridbase backend platform.
//
// The SDK exposes typed managers for the platform services - authentication,
// endpoint invocation, database, cache, queue, task and storage - each of
// which maps method calls onto the platform's REST API. All managers share a
// single dispatcher that attaches client credentials and the active session
// to every request and normalizes transport, server and decode failures into
// ordered error lists.
//
// A client is created from a Config and validated before any network call:
//
//	client, err := gridbase.New(gridbase.DefaultConfig().
//	    WithBaseURL("https://myapp.gridbase.io").
//	    WithClientKey("client-key"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//
//	user, session, err := client.Auth().SignInWithEmail(ctx, "bob@example.com", "secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(user.Email, session.Token)
//
// Managers are created lazily on first access and memoized, so repeated
// accessor calls are cheap and return the same instance. Storage handles are
// lightweight value objects and can be created freely:
//
//	data, err := client.Storage().Bucket("avatars").File("bob.png").Download(ctx)
//
// Every method issues exactly one HTTP request and returns either a decoded
// payload or an *ErrorList carrying the ordered server error entries. The
// SDK performs no retries; callers that want retry semantics can inspect the
// returned error with IsNetworkError or IsTimeout and re-issue the call.
package gridbase
