package store

// MySQL statements. Timestamps carry microsecond precision so that an edit
// can always move updated_at strictly forward.
const (
	getPost = `
		SELECT post_id, user_id, title, markdown, created_at, updated_at
		FROM post
		WHERE post_id = ?`

	getPosts = `
		SELECT post_id, user_id, title, markdown, created_at, updated_at
		FROM post
		ORDER BY created_at DESC, post_id DESC
		LIMIT ?`

	addPost = `
		INSERT INTO post (title, markdown, user_id, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP(6), CURRENT_TIMESTAMP(6))`

	updatePost = `
		UPDATE post
		SET title = ?, markdown = ?,
			updated_at = GREATEST(CURRENT_TIMESTAMP(6), updated_at + INTERVAL 1 MICROSECOND)
		WHERE post_id = ?`

	deletePost = `DELETE FROM post WHERE post_id = ?`

	getComment = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment
		WHERE comment_id = ?`

	getComments = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment
		ORDER BY comment_id ASC
		LIMIT ?`

	getPostComments = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment
		WHERE post_id = ?
		ORDER BY comment_id ASC`

	getCommentsForPosts = `
		SELECT comment_id, post_id, user_id, content, created_at
		FROM comment
		WHERE post_id IN ?
		ORDER BY comment_id ASC`

	insertComment = `
		INSERT INTO comment (post_id, user_id, content, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP(6))`

	updateComment = `UPDATE comment SET content = ? WHERE comment_id = ?`

	deleteComment = `DELETE FROM comment WHERE comment_id = ?`

	getUsernames = `SELECT user_id, username FROM users WHERE user_id IN ?`

	getUserByUsername = `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE username = ?`

	insertUser = `
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP(6))`

	lastInsertID = `SELECT LAST_INSERT_ID()`
)
