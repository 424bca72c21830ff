package service

// Status is the outcome code of a rate query.
type Status int

// Query outcome codes. The numeric values are part of the public contract.
const (
	StatusGenericError           Status = 0
	StatusSuccess                Status = 1
	StatusPairsNotFound          Status = 2
	StatusInsufficientConditions Status = 3
	StatusInvalidDateFormat      Status = 4
)

var statusNames = map[Status]string{
	StatusGenericError:           "GenericError",
	StatusSuccess:                "Success",
	StatusPairsNotFound:          "PairsNotFound",
	StatusInsufficientConditions: "InsufficientConditions",
	StatusInvalidDateFormat:      "InvalidDateFormat",
}

var statusMessages = map[Status]string{
	StatusGenericError:           "Something wrong in the query",
	StatusSuccess:                "Query Successful",
	StatusPairsNotFound:          "Currency Pairs not found",
	StatusInsufficientConditions: "More conditions required",
	StatusInvalidDateFormat:      "Invalid date format",
}

// Code returns the numeric status code.
func (s Status) Code() int {
	return int(s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Message returns the fixed human-readable message for the status.
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "Unknown error"
}
