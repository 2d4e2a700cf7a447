package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/cesarmodas/storefront-cart/pkg/clock"
)

// Storefront notice texts. The copy is es-PE and fixed; callers never
// compose their own wording.
const (
	NoticeAlreadyEmpty   = "La bolsa ya está vacía"
	NoticeCleared        = "Bolsa vaciada"
	NoticeCheckoutEmpty  = "Agrega productos a tu bolsa primero"
	NoticeSubmitEmpty    = "Tu carrito está vacío"
	NoticeFormIncomplete = "Por favor completa todos los campos requeridos"
)

// NoticeAdded is the toast shown after a product lands in the cart.
func NoticeAdded(name string) string {
	return fmt.Sprintf("✓ %s agregado a tu bolsa", name)
}

// NoticeRenderer rebuilds the toast surface from the live notices.
type NoticeRenderer interface {
	RenderNotices(messages []string)
}

type notice struct {
	id      int
	message string
}

// Shell owns the transient chrome around the cart: toast notices with
// auto-dismiss and the open/closed state of the drawer, the checkout modal
// and the confirmation panel. Dialog toggles are idempotent.
type Shell struct {
	mu       sync.Mutex
	renderer NoticeRenderer
	clk      clock.Clock
	toastFor time.Duration

	notices []notice
	nextID  int
	timers  map[int]clock.Cancel

	drawerOpen       bool
	modalOpen        bool
	confirmationOpen bool

	onDismiss []func()
}

// NewShell builds a shell. A nil clock falls back to the system clock.
func NewShell(renderer NoticeRenderer, clk clock.Clock, toastDuration time.Duration) *Shell {
	if clk == nil {
		clk = clock.System()
	}
	return &Shell{
		renderer: renderer,
		clk:      clk,
		toastFor: toastDuration,
		timers:   map[int]clock.Cancel{},
	}
}

// Notify shows a toast and schedules its auto-dismiss.
func (s *Shell) Notify(message string) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.notices = append(s.notices, notice{id: id, message: message})
	s.timers[id] = s.clk.AfterFunc(s.toastFor, func() {
		s.dismissNotice(id)
	})
	messages := s.messagesLocked()
	s.mu.Unlock()

	s.render(messages)
}

func (s *Shell) dismissNotice(id int) {
	s.mu.Lock()
	delete(s.timers, id)
	for i, n := range s.notices {
		if n.id == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			break
		}
	}
	messages := s.messagesLocked()
	s.mu.Unlock()

	s.render(messages)
}

// Notices returns the live toast messages in display order.
func (s *Shell) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messagesLocked()
}

func (s *Shell) messagesLocked() []string {
	out := make([]string, len(s.notices))
	for i, n := range s.notices {
		out[i] = n.message
	}
	return out
}

func (s *Shell) render(messages []string) {
	if s.renderer != nil {
		s.renderer.RenderNotices(messages)
	}
}

// OpenDrawer opens the cart drawer.
func (s *Shell) OpenDrawer() { s.setDrawer(true) }

// CloseDrawer closes the cart drawer.
func (s *Shell) CloseDrawer() { s.setDrawer(false) }

// DrawerOpen reports whether the drawer is open.
func (s *Shell) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

func (s *Shell) setDrawer(open bool) {
	s.mu.Lock()
	s.drawerOpen = open
	s.mu.Unlock()
}

// OpenModal opens the checkout modal.
func (s *Shell) OpenModal() { s.setModal(true) }

// CloseModal closes the checkout modal.
func (s *Shell) CloseModal() { s.setModal(false) }

// ModalOpen reports whether the checkout modal is open.
func (s *Shell) ModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalOpen
}

func (s *Shell) setModal(open bool) {
	s.mu.Lock()
	s.modalOpen = open
	s.mu.Unlock()
}

// ShowConfirmation opens the post-checkout confirmation panel.
func (s *Shell) ShowConfirmation() { s.setConfirmation(true) }

// HideConfirmation closes the confirmation panel.
func (s *Shell) HideConfirmation() { s.setConfirmation(false) }

// ConfirmationOpen reports whether the confirmation panel is open.
func (s *Shell) ConfirmationOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmationOpen
}

func (s *Shell) setConfirmation(open bool) {
	s.mu.Lock()
	s.confirmationOpen = open
	s.mu.Unlock()
}

// OnDismissAll registers a hook run by DismissAll after the dialogs close.
// Hooks run outside the shell lock and may call back into the shell.
func (s *Shell) OnDismissAll(fn func()) {
	s.mu.Lock()
	s.onDismiss = append(s.onDismiss, fn)
	s.mu.Unlock()
}

// DismissAll closes the drawer, the modal and the confirmation panel in one
// sweep. Calling it with everything already closed is a no-op.
func (s *Shell) DismissAll() {
	s.mu.Lock()
	s.drawerOpen = false
	s.modalOpen = false
	s.confirmationOpen = false
	hooks := make([]func(), len(s.onDismiss))
	copy(hooks, s.onDismiss)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// State is the dialog and notice snapshot embedded in API responses.
type State struct {
	DrawerOpen       bool     `json:"drawer_open"`
	ModalOpen        bool     `json:"modal_open"`
	ConfirmationOpen bool     `json:"confirmation_open"`
	Notices          []string `json:"notices"`
}

// Snapshot returns the current shell state.
func (s *Shell) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		DrawerOpen:       s.drawerOpen,
		ModalOpen:        s.modalOpen,
		ConfirmationOpen: s.confirmationOpen,
		Notices:          s.messagesLocked(),
	}
}
