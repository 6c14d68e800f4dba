package http

// UploadStatus is the stage of a file upload a notification is sent at.
type UploadStatus uint8

const (
	UploadStart UploadStatus = iota
	UploadWrite
	UploadEnd
	UploadAborted
)

func (u UploadStatus) String() string {
	switch u {
	case UploadStart:
		return "start"
	case UploadWrite:
		return "write"
	case UploadEnd:
		return "end"
	case UploadAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Upload is the state of a file part being streamed off the wire. There is at most one
// per request, and it is reused for every file part of it.
type Upload struct {
	Status        UploadStatus
	Name          string
	Filename      string
	Type          string
	// TotalSize is the number of bytes flushed so far. At UploadEnd it's the file size.
	TotalSize     int
	// CurrentSize is the number of bytes in Buf.
	CurrentSize   int
	// ContentLength is the declared length of the whole request body.
	ContentLength int
	Buf           []byte
}

func NewUpload(bufferSize int) *Upload {
	return &Upload{
		Buf: make([]byte, bufferSize),
	}
}

// Chunk returns the buffered bytes of the current notification.
func (u *Upload) Chunk() []byte {
	return u.Buf[:u.CurrentSize]
}

// Begin prepares the upload for a new file part.
func (u *Upload) Begin(name, filename, contentType string, contentLength int) {
	u.Status = UploadStart
	u.Name = name
	u.Filename = filename
	u.Type = contentType
	u.TotalSize = 0
	u.CurrentSize = 0
	u.ContentLength = contentLength
}

// Reset discards the state of the last file part.
func (u *Upload) Reset() {
	u.Begin("", "", "", 0)
}
