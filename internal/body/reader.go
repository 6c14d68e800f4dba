package body

import (
	"time"

	"github.com/indigo-web/microserve/config"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/internal/buffer"
	"github.com/indigo-web/microserve/transport"
)

// Reader accumulates a body of known length off a polled client. Between two chunks it
// waits at most the configured timeout; a peer that disconnects or stays silent for longer
// results in a truncated body.
type Reader struct {
	client transport.Client
	cfg    config.Body
	sleep  func(time.Duration)
}

func NewReader(client transport.Client, cfg config.Body) *Reader {
	return &Reader{
		client: client,
		cfg:    cfg,
		sleep:  time.Sleep,
	}
}

// Read returns exactly length bytes. The memory is either allocated at once or grown
// as the chunks arrive, depending on the configured strategy; both report
// status.ErrAllocationFailure if the body doesn't fit into the configured maximum and
// status.ErrBodyTruncated if fewer bytes than requested arrived.
func (r *Reader) Read(length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}

	if length > r.cfg.MaxSize {
		return nil, status.ErrAllocationFailure
	}

	initial := 0
	if r.cfg.Strategy == config.Prealloc {
		initial = length
	}

	buff := buffer.New(initial, r.cfg.MaxSize)

	for buff.Len() < length {
		avail := r.await()
		if avail == 0 {
			break
		}

		if remaining := length - buff.Len(); avail > remaining {
			avail = remaining
		}

		window, ok := buff.Extend(avail)
		if !ok {
			return nil, status.ErrAllocationFailure
		}

		n, err := r.client.Read(window)
		buff.Trunc(avail - n)
		if err != nil && err != transport.ErrNoData {
			break
		}
	}

	if buff.Len() != length {
		return nil, status.ErrBodyTruncated
	}

	return buff.Bytes(), nil
}

// await polls the client until some data is available. The number of tries is derived
// from the timeout, so it is the timeout that bounds the wait.
func (r *Reader) await() (avail int) {
	tries := r.tries()

	for avail = r.client.Available(); avail == 0 && tries > 0; avail = r.client.Available() {
		if !r.client.Connected() {
			return 0
		}

		r.sleep(r.cfg.PollInterval)
		tries--
	}

	return avail
}

func (r *Reader) tries() int {
	if r.cfg.PollInterval <= 0 {
		return 1
	}

	return int(r.cfg.ReadTimeout / r.cfg.PollInterval)
}
