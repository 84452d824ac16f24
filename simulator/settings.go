package simulator

// Settings configures a simulation run.
type Settings struct {
	SpeculationWidth int

	TrainingFiles []string
	TestFiles     []string

	// Byte caps for the two datasets; 0 means unlimited.
	TrainingDatasetSize int
	TestDatasetSize     int

	// ChainLengthLimit caps the codewords committed per round; 0 means
	// unlimited.
	ChainLengthLimit int

	// UseSameDataset makes training and test both read from the union of
	// the two file lists.
	UseSameDataset bool
}
