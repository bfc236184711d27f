package vsabench

// Version is the bench version written to every report.
const Version = "0.1.0"
