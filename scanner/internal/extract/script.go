package extract

// Script runs in the page. Arguments: link selector, container selector.
// It returns []Candidate as JSON; every rule beyond locating the nodes is
// applied in Go.
const Script = `(linkSel, containerSel) =>
	Array.from(document.querySelectorAll(linkSel)).map((a) => {
		const box = a.closest(containerSel);
		return {
			text: a.innerText || "",
			context: box ? box.innerText || "" : "",
			href: a.href || "",
		};
	})`
