package sync

// State estado de una escritura lógica en el coordinador dual-write:
// LocalWritten -> RemoteAttempted -> {RemoteAcked | RemoteFailed}.
type State string

const (
	StateLocalWritten State = "local_written"
	StateRemoteAcked  State = "remote_acked"
	StateRemoteFailed State = "remote_failed"
)

// Op operación lógica sobre una entidad.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Event evento estructurado emitido por el coordinador en cada transición.
// Sustituye las cadenas fire-and-forget que solo reportaban por consola: la UI
// (u otro consumidor) se suscribe y decide cómo presentar cada fallo.
type Event struct {
	Entity string
	ID     string
	Op     Op
	State  State
	Err    error // solo en StateRemoteFailed
}

// EventFunc callback de suscripción a eventos del coordinador.
type EventFunc func(Event)
