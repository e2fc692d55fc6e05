package canvas

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCallbackTableDispatchesInRegistrationOrder matches spec.md §4.5's
// requirement that callbacks for the same Kind fire in registration order.
func TestCallbackTableDispatchesInRegistrationOrder(t *testing.T) {
	var order []int
	var table callbackTable

	table.register(EventFrame, nil, func(ev Event, param, userData interface{}) {
		order = append(order, 1)
	}, nil)
	table.register(EventFrame, nil, func(ev Event, param, userData interface{}) {
		order = append(order, 2)
	}, nil)
	table.register(EventMouse, nil, func(ev Event, param, userData interface{}) {
		order = append(order, 99)
	}, nil)

	table.dispatch(Event{Kind: EventFrame})

	assert.Equal(t, []int{1, 2}, order)
}

// TestCallbackTablePassesParamAndUserData confirms one registered function
// can be reused across registrations distinguished by param/userData, the
// pattern spec.md §4.5 calls out for timers.
func TestCallbackTablePassesParamAndUserData(t *testing.T) {
	var gotParam, gotUserData interface{}
	var table callbackTable

	table.register(EventTimer, "timer-a", func(ev Event, param, userData interface{}) {
		gotParam, gotUserData = param, userData
	}, "data-a")

	table.dispatch(Event{Kind: EventTimer})

	require.Equal(t, "timer-a", gotParam)
	assert.Equal(t, "data-a", gotUserData)
}

func TestTranslateGLFWAction(t *testing.T) {
	assert.Equal(t, ActionPress, translateGLFWAction(glfw.Press))
	assert.Equal(t, ActionRepeat, translateGLFWAction(glfw.Repeat))
	assert.Equal(t, ActionRelease, translateGLFWAction(glfw.Release))
}

// TestPrivateBeforePublicOrdering confirms Canvas's drain sequence (private
// table dispatched before public) by exercising the two tables directly,
// since drainEvents itself requires a constructed Canvas backed by a GPU.
func TestPrivateBeforePublicOrdering(t *testing.T) {
	var order []string
	var private, public callbackTable

	private.register(EventResize, nil, func(ev Event, param, userData interface{}) {
		order = append(order, "private")
	}, nil)
	public.register(EventResize, nil, func(ev Event, param, userData interface{}) {
		order = append(order, "public")
	}, nil)

	ev := Event{Kind: EventResize, Width: 800, Height: 600}
	private.dispatch(ev)
	public.dispatch(ev)

	assert.Equal(t, []string{"private", "public"}, order)
}
