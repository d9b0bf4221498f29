package rod

// TestHTML templates for testing
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1 id="title" class="headline">Hello <b>World</b></h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="login">
		<input id="username" type="text" name="user" />
		<input id="password" type="password" name="pass" />
		<button id="submit" type="submit">Submit</button>
	</form>
</body>
</html>`

	ListHTML = `<!DOCTYPE html>
<html>
<body>
	<ul>
		<li data-id="x">One</li>
		<li data-id="y">Two</li>
		<li data-id="z">Three</li>
	</ul>
</body>
</html>`

	VisibilityHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="shown" style="width: 100px; height: 40px;">Shown</div>
	<div id="none" style="display: none;">None</div>
	<div id="empty" style="width: 0; height: 0; overflow: hidden;"></div>
</body>
</html>`
)
