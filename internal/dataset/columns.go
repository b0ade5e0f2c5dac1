package dataset

// Column vocabulary shared by the pipeline stages. The training file
// accumulates these across the joins; preprocess consumes them by name.

// AudioFeatures are the per-track numeric descriptors carried from the
// genre source through every join, in output column order.
func AudioFeatures() []string {
	return []string{
		"danceability", "energy", "key", "loudness", "speechiness",
		"acousticness", "instrumentalness", "liveness", "valence", "tempo",
	}
}

// NumericalFeatures are the columns the preprocess stage scales: the audio
// descriptors plus everything the climate, economy, and geography joins add.
func NumericalFeatures() []string {
	return append(AudioFeatures(),
		"month", "avg_temp", "population", "gdp_per_capita",
		"latitude", "longitude", "tertiary_enrollment", "unemployment_rate",
	)
}

// CategoricalFeatures are the columns the preprocess stage integer-encodes.
func CategoricalFeatures() []string {
	return []string{"region", "continent"}
}

// IdentifierColumns name rows but predict nothing; preprocess drops them.
func IdentifierColumns() []string {
	return []string{"title", "date", "artist"}
}

// TargetColumn holds the genre list the model target is extracted from.
const TargetColumn = "track_genre"
