package boundary

// Channel names of the boundary calls.
const (
	ChannelSaveSubmission   = "save-submission"
	ChannelGetSubmissions   = "get-submissions"
	ChannelClearSubmissions = "clear-submissions"
	ChannelPrintToPDF       = "print-to-pdf"
	ChannelShowSubmission   = "show-submission"
)

// Channels lists every channel in registration order.
var Channels = []string{
	ChannelSaveSubmission,
	ChannelGetSubmissions,
	ChannelClearSubmissions,
	ChannelPrintToPDF,
	ChannelShowSubmission,
}

// ShowRequest is the payload of show-submission. An empty SerialNumber
// shows the submission list.
type ShowRequest struct {
	SerialNumber string `json:"serialNumber,omitempty"`
}
