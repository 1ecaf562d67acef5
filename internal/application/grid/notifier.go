package grid

import (
	"sync"
	"time"
)

// Severity nivel de una notificación.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DefaultDismissAfter tiempo tras el cual una notificación visible se oculta sola.
const DefaultDismissAfter = 6 * time.Second

// Notification estado del único slot de notificación. Message se conserva al ocultarse.
type Notification struct {
	Message  string
	Severity Severity
	Visible  bool
}

// Notifier canal de notificación de un solo slot: el último Show gana, sin cola.
type Notifier struct {
	mu        sync.Mutex
	current   Notification
	after     time.Duration
	timer     *time.Timer
	gen       uint64
	listeners []func(Notification)

	// deliver serializa la entrega a los listeners; cada entrega lee el estado vigente,
	// así la última que ve un listener coincide con Current.
	deliver sync.Mutex
}

// NewNotifier construye el canal. after <= 0 usa DefaultDismissAfter.
func NewNotifier(after time.Duration) *Notifier {
	if after <= 0 {
		after = DefaultDismissAfter
	}
	return &Notifier{after: after, current: Notification{Severity: SeveritySuccess}}
}

// OnChange registra fn para cada cambio de estado (Show, Dismiss o auto-dismiss).
// Debe llamarse antes de usar el canal.
func (n *Notifier) OnChange(fn func(Notification)) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}

// Show reemplaza la notificación actual, la hace visible y reinicia el auto-dismiss.
func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	n.current = Notification{Message: message, Severity: severity, Visible: true}
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.after, func() { n.expire(gen) })
	fns := n.listeners
	n.mu.Unlock()
	n.notify(fns)
}

// Dismiss oculta la notificación actual (cierre explícito del usuario).
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.hideLocked()
}

// Current devuelve el estado actual.
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Close detiene el temporizador pendiente sin cambiar el estado.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
}

// expire oculta sólo si no hubo otro Show/Dismiss desde que se armó el temporizador.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.hideLocked()
}

// hideLocked libera n.mu.
func (n *Notifier) hideLocked() {
	changed := n.current.Visible
	n.current.Visible = false
	fns := n.listeners
	n.mu.Unlock()
	if changed {
		n.notify(fns)
	}
}

// notify entrega el estado vigente a fns. Los listeners no deben llamar Show ni Dismiss.
func (n *Notifier) notify(fns []func(Notification)) {
	if len(fns) == 0 {
		return
	}
	n.deliver.Lock()
	defer n.deliver.Unlock()
	cur := n.Current()
	for _, fn := range fns {
		fn(cur)
	}
}
