package parser

import "strings"

// SystemPrompt is the system message sent with every ticket extraction.
const SystemPrompt = "You are an expert travel document parser."

const ticketSchemaExample = `[
  {
    "flightDetails": {
      "flightNumber": "AI102",
      "departureTime": "2025-07-12T04:55:00+05:30",
      "arrivalTime": "2025-07-12T10:35:00+02:00",
      "origin": "Delhi, Terminal 3",
      "destination": "Paris, Terminal 2C",
      "price": null
    },
    "passengerDetails": [
      {
        "name": "MR JOHN SMITH",
        "passportNumber": "1234567890123",
        "seatNumber": "12A",
        "mealPreference": null
      }
    ]
  }
]`

// BuildTicketPrompt returns the user prompt for converting raw ticket text into flight records.
// The document text is embedded verbatim (trimmed) between triple backticks.
func BuildTicketPrompt(rawText string) string {
	var b strings.Builder
	b.WriteString("You are an AI that converts airline ticket text into structured JSON.\n\n")
	b.WriteString("Desired schema (a JSON array with one object per flight leg):\n")
	b.WriteString(ticketSchemaExample)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Output ONLY valid JSON. No prose, no explanation, no markdown code fences.\n")
	b.WriteString("- Every key in the schema must be present. If information is missing, use null.\n")
	b.WriteString("- Times must be ISO-8601 with an offset when the ticket gives one.\n")
	b.WriteString("- flightNumber is the carrier code followed by digits, without separators.\n")
	b.WriteString("- passportNumber is the 10-13 digit document number printed next to the passenger.\n\n")
	b.WriteString("Here is the ticket text between the triple backticks:\n```\n")
	b.WriteString(strings.TrimSpace(rawText))
	b.WriteString("\n```")
	return b.String()
}
