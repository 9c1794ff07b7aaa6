package repository

const (
	createJobQuery = `INSERT INTO jobs (id, title, description, text, quality, status, created_at, audio_files)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`
	getJobByIDQuery = `SELECT id, title, description, text, quality, status, created_at, audio_files FROM jobs
					WHERE id = $1`
	// created_at is stored as formatted text, so it does not sort
	// chronologically; ctid keeps insertion order instead.
	listJobsQuery = `SELECT id, title, description, text, quality, status, created_at, audio_files FROM jobs
					ORDER BY ctid`
	updateJobStatusQuery = `UPDATE jobs SET status = $1 WHERE id = $2`
)
