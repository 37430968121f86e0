package controllers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"courseplatform/config"
	course "courseplatform/models/course"
	"courseplatform/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryBody map[string]interface{}

func TestCreateContent(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	student := testutil.SeedUser(t, h.db, "student@example.com", false)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	testutil.Enroll(t, h.db, c, student)
	it := testutil.SeedItem(t, h.db, testutil.SeedModule(t, h.db, c, "intro"))
	base := fmt.Sprintf("/items/%d/contents", it.ID)

	status, _ := h.do("POST", base+"/text", student, fiber.Map{"title": "t", "content": "x"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.do("POST", base+"/podcast", owner, fiber.Map{"title": "t"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := h.do("POST", base+"/text", owner, fiber.Map{"title": "t", "item_type": "video"})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	var fields map[string]string
	decodeData(t, env, &fields)
	assert.Equal(t, "Content is required!", fields["content"])

	status, env = h.do("POST", base+"/text", owner, fiber.Map{"title": "Welcome", "content": "# Hello", "item_type": "video"})
	require.Equal(t, fiber.StatusCreated, status)
	var text entryBody
	decodeData(t, env, &text)
	assert.Equal(t, "text", text["item_type"], "the variant comes from the route")
	assert.EqualValues(t, 0, text["order"])
	assert.EqualValues(t, owner.ID, text["owner_id"])
	assert.Contains(t, text["content_html"], "<h1>Hello</h1>")

	status, env = h.do("POST", base+"/video", owner, fiber.Map{"title": "Intro", "url": "https://videos.example.com/intro"})
	require.Equal(t, fiber.StatusCreated, status)
	var video entryBody
	decodeData(t, env, &video)
	assert.EqualValues(t, 1, video["order"])

	status, env = h.do("POST", base+"/video", owner, fiber.Map{"title": "Bad", "url": "ftp//nope"})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	decodeData(t, env, &fields)
	assert.Contains(t, fields, "url")

	status, env = h.do("GET", fmt.Sprintf("/items/%d", it.ID), owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var view entryBody
	decodeData(t, env, &view)
	assert.Len(t, view["texts"], 1)
	assert.Len(t, view["videos"], 1)
	assert.NotContains(t, view, "files")
}

func TestUploadFile(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	it := testutil.SeedItem(t, h.db, testutil.SeedModule(t, h.db, c, "intro"))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Slides"))
	part, err := w.CreateFormFile("file", "slides.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	status, env := h.send("POST", fmt.Sprintf("/items/%d/contents/file", it.ID), owner, w.FormDataContentType(), &body)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var file entryBody
	decodeData(t, env, &file)

	ref, _ := file["file"].(string)
	require.True(t, strings.HasPrefix(ref, "/uploads/files/"), ref)
	stored := filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(strings.TrimPrefix(ref, "/uploads/")))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	status, _ = h.do("DELETE", fmt.Sprintf("/contents/file/%v", file["id"]), owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestMultipartOnlyForFiles(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	it := testutil.SeedItem(t, h.db, testutil.SeedModule(t, h.db, c, "intro"))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Notes"))
	require.NoError(t, w.Close())

	status, _ := h.send("POST", fmt.Sprintf("/items/%d/contents/text", it.ID), owner, w.FormDataContentType(), &body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestContentAccessAndAnswerKeys(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	student := testutil.SeedUser(t, h.db, "student@example.com", false)
	stranger := testutil.SeedUser(t, h.db, "stranger@example.com", false)
	staff := testutil.SeedUser(t, h.db, "staff@example.com", true)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	testutil.Enroll(t, h.db, c, student)
	it := testutil.SeedItem(t, h.db, testutil.SeedModule(t, h.db, c, "intro"))

	status, env := h.do("POST", fmt.Sprintf("/items/%d/contents/choicesassignment", it.ID), owner, fiber.Map{
		"title":     "Ready?",
		"choices":   []string{"Yes", "No", "Maybe"},
		"answer":    "Yes",
		"max_score": 2,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created entryBody
	decodeData(t, env, &created)
	assert.Equal(t, "Yes", created["answer"])
	path := fmt.Sprintf("/contents/choicesassignment/%v", created["id"])

	a, err := course.LoadAssignment(h.db, course.KindChoicesAssignment, uint(created["id"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, "Yes,_No,_Maybe", a.ChoicesRaw)

	status, env = h.do("GET", path, student, nil)
	require.Equal(t, fiber.StatusOK, status)
	var seen entryBody
	decodeData(t, env, &seen)
	assert.Equal(t, "", seen["answer"])
	assert.Equal(t, []interface{}{"Yes", "No", "Maybe"}, seen["choices"])

	status, env = h.do("GET", path, staff, nil)
	require.Equal(t, fiber.StatusOK, status)
	decodeData(t, env, &seen)
	assert.Equal(t, "Yes", seen["answer"])

	status, _ = h.do("GET", path, stranger, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = h.do("GET", path, nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = h.do("GET", fmt.Sprintf("/contents/stringassignment/%v", created["id"]), staff, nil)
	assert.Equal(t, fiber.StatusNotFound, status, "the kind must match the stored row")

	status, _ = h.do("PATCH", path, student, fiber.Map{"answer": "No"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = h.do("PATCH", path, owner, fiber.Map{"answer": "Never"})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	var fields map[string]string
	decodeData(t, env, &fields)
	assert.Equal(t, "Answer must be one of the choices!", fields["answer"])

	status, env = h.do("PATCH", path, owner, fiber.Map{"answer": "No", "title": "Ready now?"})
	require.Equal(t, fiber.StatusOK, status)
	var updated entryBody
	decodeData(t, env, &updated)
	assert.Equal(t, "No", updated["answer"])
	assert.Equal(t, "Ready now?", updated["title"])
	assert.EqualValues(t, 2, updated["max_score"], "fields not sent are kept")
}

func uploadForm(t *testing.T, title, filename, data string) (string, *bytes.Buffer) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", title))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), &body
}

func storedPath(ref string) string {
	return filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(strings.TrimPrefix(ref, "/uploads/")))
}

func assertGone(t *testing.T, ref string) {
	t.Helper()
	_, err := os.Stat(storedPath(ref))
	assert.True(t, os.IsNotExist(err), ref)
}

func TestReplacingUploadRemovesPreviousAsset(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	it := testutil.SeedItem(t, h.db, testutil.SeedModule(t, h.db, c, "intro"))

	ct, body := uploadForm(t, "Slides", "v1.pdf", "first")
	status, env := h.send("POST", fmt.Sprintf("/items/%d/contents/file", it.ID), owner, ct, body)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created entryBody
	decodeData(t, env, &created)
	first, _ := created["file"].(string)
	require.NotEmpty(t, first)

	ct, body = uploadForm(t, "Slides", "v2.pdf", "second")
	status, env = h.send("PUT", fmt.Sprintf("/contents/file/%v", created["id"]), owner, ct, body)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var updated entryBody
	decodeData(t, env, &updated)
	second, _ := updated["file"].(string)
	require.NotEqual(t, first, second)

	assertGone(t, first)
	data, err := os.ReadFile(storedPath(second))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	status, env = h.do("PATCH", fmt.Sprintf("/contents/file/%v", created["id"]), owner, fiber.Map{"title": "Renamed"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	_, err = os.Stat(storedPath(second))
	assert.NoError(t, err, "updates without an upload keep the asset")
}

func TestDeletingParentsRemovesAssets(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.db, "owner@example.com", false)
	c := testutil.SeedCourse(t, h.db, owner, "Go")
	m := testutil.SeedModule(t, h.db, c, "intro")
	first := testutil.SeedItem(t, h.db, m)
	second := testutil.SeedItem(t, h.db, m)

	upload := func(it *course.Item, name string) string {
		ct, body := uploadForm(t, name, name+".pdf", name)
		status, env := h.send("POST", fmt.Sprintf("/items/%d/contents/file", it.ID), owner, ct, body)
		require.Equal(t, fiber.StatusCreated, status, env.Message)
		var created entryBody
		decodeData(t, env, &created)
		ref, _ := created["file"].(string)
		require.NotEmpty(t, ref)
		return ref
	}
	a := upload(first, "a")
	b := upload(second, "b")

	status, _ := h.do("DELETE", fmt.Sprintf("/items/%d", first.ID), owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assertGone(t, a)
	_, err := os.Stat(storedPath(b))
	require.NoError(t, err, "other items keep their assets")

	status, _ = h.do("DELETE", fmt.Sprintf("/modules/%d", m.ID), owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assertGone(t, b)
}
