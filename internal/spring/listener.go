package spring

// Listener receives the state transitions of a spring. Listeners are
// compared by identity on removal, so register pointer values.
type Listener interface {
	OnSpringEndStateChange(s *Spring)
	OnSpringActivate(s *Spring)
	OnSpringUpdate(s *Spring)
	OnSpringAtRest(s *Spring)
}

// ListenerFuncs adapts optional functions to a Listener. Nil fields are
// skipped.
type ListenerFuncs struct {
	EndStateChange func(s *Spring)
	Activate       func(s *Spring)
	Update         func(s *Spring)
	AtRest         func(s *Spring)
}

func (l *ListenerFuncs) OnSpringEndStateChange(s *Spring) {
	if l.EndStateChange != nil {
		l.EndStateChange(s)
	}
}

func (l *ListenerFuncs) OnSpringActivate(s *Spring) {
	if l.Activate != nil {
		l.Activate(s)
	}
}

func (l *ListenerFuncs) OnSpringUpdate(s *Spring) {
	if l.Update != nil {
		l.Update(s)
	}
}

func (l *ListenerFuncs) OnSpringAtRest(s *Spring) {
	if l.AtRest != nil {
		l.AtRest(s)
	}
}

// SystemListener is notified around every integration pass of a System.
type SystemListener interface {
	OnBeforeIntegrate(sys *System)
	OnAfterIntegrate(sys *System)
}

type SystemListenerFuncs struct {
	BeforeIntegrate func(sys *System)
	AfterIntegrate  func(sys *System)
}

func (l *SystemListenerFuncs) OnBeforeIntegrate(sys *System) {
	if l.BeforeIntegrate != nil {
		l.BeforeIntegrate(sys)
	}
}

func (l *SystemListenerFuncs) OnAfterIntegrate(sys *System) {
	if l.AfterIntegrate != nil {
		l.AfterIntegrate(sys)
	}
}

// removeFirst drops the first element equal to item.
func removeFirst[T comparable](items []T, item T) []T {
	for i, v := range items {
		if v == item {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
