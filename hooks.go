package weave

import "fmt"

// Hooks is the full log-hook surface consumed by external log/trace
// emitters (§6). Every field is optional; a nil field fires nothing. All
// dispatching code in this package calls Hooks through the fireXxx helper
// methods below so call sites never need a nil check.
//
// Hooks carries no prescribed wire format — it exists purely so an
// external emitter (out of scope for this package, see doc.go) can observe
// every event named in the spec's "Log hooks" list. NewLoggingHooks wires
// every field to the structured Logger (see logging.go) for the common
// case of "just log everything."
type Hooks struct {
	OnCreateActor            func(id ActorId)
	OnStateTransitionEntry   func(id ActorId, state StateName)
	OnStateTransitionExit    func(id ActorId, state StateName)
	OnGoto                   func(id ActorId, from, to StateName)
	OnPush                   func(id ActorId, state StateName)
	OnPop                    func(id ActorId, state StateName)
	OnPopUnhandledEvent      func(id ActorId, state StateName, evtType EventType)
	OnEnqueue                func(id ActorId, evt Event)
	OnDequeue                func(id ActorId, evt Event)
	OnReceive                func(id ActorId, evt Event)
	OnWait                   func(id ActorId)
	OnSend                   func(from ActorId, hasSender bool, to ActorId, evt Event)
	OnRandom                 func(id ActorId, result any)
	OnHalt                   func(id ActorId)
	OnDefaultEventHandler    func(id ActorId, state StateName)
	OnExecuteAction          func(id ActorId, state StateName)
	OnRaiseEvent             func(id ActorId, evt Event)
	OnHandleRaisedEvent      func(id ActorId, evt Event)
	OnExceptionThrown        func(id ActorId, methodName string, err error)
	OnExceptionHandled       func(id ActorId, methodName string, err error)
	OnCreateMonitor          func(monitorType string)
	OnMonitorStateTransition func(monitorType string, state StateName)
	OnMonitorProcessEvent    func(monitorType string, evt Event)
	OnMonitorRaiseEvent      func(monitorType string, evt Event)
	OnMonitorExecuteAction   func(monitorType string, state StateName)
	OnError                  func(text string)
	OnStrategyError          func(strategy string, description string)
}

func (h *Hooks) fireCreateActor(id ActorId) {
	if h != nil && h.OnCreateActor != nil {
		h.OnCreateActor(id)
	}
}

func (h *Hooks) fireStateTransition(id ActorId, entry bool, state StateName) {
	if h == nil {
		return
	}
	if entry && h.OnStateTransitionEntry != nil {
		h.OnStateTransitionEntry(id, state)
	} else if !entry && h.OnStateTransitionExit != nil {
		h.OnStateTransitionExit(id, state)
	}
}

func (h *Hooks) fireGoto(id ActorId, from, to StateName) {
	if h != nil && h.OnGoto != nil {
		h.OnGoto(id, from, to)
	}
}

func (h *Hooks) firePush(id ActorId, state StateName) {
	if h != nil && h.OnPush != nil {
		h.OnPush(id, state)
	}
}

func (h *Hooks) firePop(id ActorId, state StateName) {
	if h != nil && h.OnPop != nil {
		h.OnPop(id, state)
	}
}

func (h *Hooks) firePopUnhandledEvent(id ActorId, state StateName, evtType EventType) {
	if h != nil && h.OnPopUnhandledEvent != nil {
		h.OnPopUnhandledEvent(id, state, evtType)
	}
}

func (h *Hooks) fireEnqueue(id ActorId, evt Event) {
	if h != nil && h.OnEnqueue != nil {
		h.OnEnqueue(id, evt)
	}
}

func (h *Hooks) fireDequeue(id ActorId, evt Event) {
	if h != nil && h.OnDequeue != nil {
		h.OnDequeue(id, evt)
	}
}

func (h *Hooks) fireReceive(id ActorId, evt Event) {
	if h != nil && h.OnReceive != nil {
		h.OnReceive(id, evt)
	}
}

func (h *Hooks) fireWait(id ActorId) {
	if h != nil && h.OnWait != nil {
		h.OnWait(id)
	}
}

func (h *Hooks) fireSend(from ActorId, hasSender bool, to ActorId, evt Event) {
	if h != nil && h.OnSend != nil {
		h.OnSend(from, hasSender, to, evt)
	}
}

func (h *Hooks) fireRandom(id ActorId, result any) {
	if h != nil && h.OnRandom != nil {
		h.OnRandom(id, result)
	}
}

func (h *Hooks) fireHalt(id ActorId) {
	if h != nil && h.OnHalt != nil {
		h.OnHalt(id)
	}
}

func (h *Hooks) fireDefaultEventHandler(id ActorId, state StateName) {
	if h != nil && h.OnDefaultEventHandler != nil {
		h.OnDefaultEventHandler(id, state)
	}
}

func (h *Hooks) fireExecuteAction(id ActorId, state StateName) {
	if h != nil && h.OnExecuteAction != nil {
		h.OnExecuteAction(id, state)
	}
}

func (h *Hooks) fireRaiseEvent(id ActorId, evt Event) {
	if h != nil && h.OnRaiseEvent != nil {
		h.OnRaiseEvent(id, evt)
	}
}

func (h *Hooks) fireHandleRaisedEvent(id ActorId, evt Event) {
	if h != nil && h.OnHandleRaisedEvent != nil {
		h.OnHandleRaisedEvent(id, evt)
	}
}

func (h *Hooks) fireExceptionThrown(id ActorId, methodName string, err error) {
	if h != nil && h.OnExceptionThrown != nil {
		h.OnExceptionThrown(id, methodName, err)
	}
}

func (h *Hooks) fireExceptionHandled(id ActorId, methodName string, err error) {
	if h != nil && h.OnExceptionHandled != nil {
		h.OnExceptionHandled(id, methodName, err)
	}
}

func (h *Hooks) fireCreateMonitor(monitorType string) {
	if h != nil && h.OnCreateMonitor != nil {
		h.OnCreateMonitor(monitorType)
	}
}

func (h *Hooks) fireMonitorStateTransition(monitorType string, state StateName) {
	if h != nil && h.OnMonitorStateTransition != nil {
		h.OnMonitorStateTransition(monitorType, state)
	}
}

func (h *Hooks) fireMonitorProcessEvent(monitorType string, evt Event) {
	if h != nil && h.OnMonitorProcessEvent != nil {
		h.OnMonitorProcessEvent(monitorType, evt)
	}
}

func (h *Hooks) fireMonitorRaiseEvent(monitorType string, evt Event) {
	if h != nil && h.OnMonitorRaiseEvent != nil {
		h.OnMonitorRaiseEvent(monitorType, evt)
	}
}

func (h *Hooks) fireMonitorExecuteAction(monitorType string, state StateName) {
	if h != nil && h.OnMonitorExecuteAction != nil {
		h.OnMonitorExecuteAction(monitorType, state)
	}
}

func (h *Hooks) fireError(text string) {
	if h != nil && h.OnError != nil {
		h.OnError(text)
	}
}

func (h *Hooks) fireStrategyError(strategy, description string) {
	if h != nil && h.OnStrategyError != nil {
		h.OnStrategyError(strategy, description)
	}
}

// NewLoggingHooks returns a Hooks value with every field wired to log a
// structured Entry through logger, tagging each with the Category of the
// component that fired it. This is the "just log everything" default; a
// caller that wants different behavior for some subset of hooks should
// start from this and override individual fields.
func NewLoggingHooks(logger Logger) *Hooks {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	log := func(category string, id *ActorId, msg string, err error) {
		if !logger.IsEnabled(LevelDebug) {
			return
		}
		e := LogEntry{Level: LevelDebug, Category: category, Message: msg, Err: err}
		if id != nil {
			e.ActorID = id.String()
		}
		logger.Log(e)
	}
	return &Hooks{
		OnCreateActor: func(id ActorId) { log("actor", &id, "actor created", nil) },
		OnStateTransitionEntry: func(id ActorId, state StateName) {
			log("actor", &id, fmt.Sprintf("enter state %s", state), nil)
		},
		OnStateTransitionExit: func(id ActorId, state StateName) {
			log("actor", &id, fmt.Sprintf("exit state %s", state), nil)
		},
		OnGoto: func(id ActorId, from, to StateName) {
			log("actor", &id, fmt.Sprintf("goto %s -> %s", from, to), nil)
		},
		OnPush:  func(id ActorId, state StateName) { log("actor", &id, fmt.Sprintf("push %s", state), nil) },
		OnPop:   func(id ActorId, state StateName) { log("actor", &id, fmt.Sprintf("pop %s", state), nil) },
		OnPopUnhandledEvent: func(id ActorId, state StateName, evtType EventType) {
			log("actor", &id, fmt.Sprintf("pop %s on unhandled event %s", state, evtType), nil)
		},
		OnEnqueue: func(id ActorId, evt Event) { log("actor", &id, fmt.Sprintf("enqueue %s", evt.Type), nil) },
		OnDequeue: func(id ActorId, evt Event) { log("actor", &id, fmt.Sprintf("dequeue %s", evt.Type), nil) },
		OnReceive: func(id ActorId, evt Event) { log("actor", &id, fmt.Sprintf("receive %s", evt.Type), nil) },
		OnWait:    func(id ActorId) { log("actor", &id, "waiting to receive", nil) },
		OnSend: func(from ActorId, hasSender bool, to ActorId, evt Event) {
			log("actor", &to, fmt.Sprintf("send %s from %v", evt.Type, hasSender), nil)
		},
		OnRandom: func(id ActorId, result any) { log("oracle", &id, fmt.Sprintf("random -> %v", result), nil) },
		OnHalt:   func(id ActorId) { log("actor", &id, "halted", nil) },
		OnDefaultEventHandler: func(id ActorId, state StateName) {
			log("actor", &id, fmt.Sprintf("default handler in %s", state), nil)
		},
		OnExecuteAction: func(id ActorId, state StateName) {
			log("actor", &id, fmt.Sprintf("execute action in %s", state), nil)
		},
		OnRaiseEvent: func(id ActorId, evt Event) { log("actor", &id, fmt.Sprintf("raise %s", evt.Type), nil) },
		OnHandleRaisedEvent: func(id ActorId, evt Event) {
			log("actor", &id, fmt.Sprintf("handle raised %s", evt.Type), nil)
		},
		OnExceptionThrown: func(id ActorId, methodName string, err error) {
			log("actor", &id, fmt.Sprintf("exception in %s", methodName), err)
		},
		OnExceptionHandled: func(id ActorId, methodName string, err error) {
			log("actor", &id, fmt.Sprintf("exception handled in %s", methodName), err)
		},
		OnCreateMonitor: func(monitorType string) { log("monitor", nil, fmt.Sprintf("monitor %s created", monitorType), nil) },
		OnMonitorStateTransition: func(monitorType string, state StateName) {
			log("monitor", nil, fmt.Sprintf("%s -> %s", monitorType, state), nil)
		},
		OnMonitorProcessEvent: func(monitorType string, evt Event) {
			log("monitor", nil, fmt.Sprintf("%s processes %s", monitorType, evt.Type), nil)
		},
		OnMonitorRaiseEvent: func(monitorType string, evt Event) {
			log("monitor", nil, fmt.Sprintf("%s raises %s", monitorType, evt.Type), nil)
		},
		OnMonitorExecuteAction: func(monitorType string, state StateName) {
			log("monitor", nil, fmt.Sprintf("%s executes action in %s", monitorType, state), nil)
		},
		OnError:         func(text string) { log("runtime", nil, text, nil) },
		OnStrategyError: func(strategy, description string) { log("schedule", nil, fmt.Sprintf("[%s] %s", strategy, description), nil) },
	}
}
